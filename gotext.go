// Package gotext provides a session-scoped text version cache and resolver.
//
// Gotext remembers which versions of a passage have already been fetched,
// keyed by (reference, language, version title), and resolves the source
// and translation versions a reader asks for without hitting the text API
// twice for the same thing.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gotext"
//	    "github.com/ZaguanLabs/gotext/provider"
//	)
//
//	func main() {
//	    // Create fetcher
//	    f := provider.NewSefariaClient(provider.SefariaConfig{
//	        Host: "https://www.sefaria.org",
//	    })
//
//	    // Create manager
//	    m := gotext.NewManager(f,
//	        gotext.WithCache(gotext.NewVersionCache()),
//	        gotext.WithTranslationLanguage("en"),
//	    )
//
//	    // Resolve source and translation
//	    result, err := m.Resolve(context.Background(), "Genesis 1:1", gotext.BothSlots())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Translation.Version.VersionTitle)
//	}
package gotext

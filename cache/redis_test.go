package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ZaguanLabs/gotext"
	"github.com/go-redis/redismock/v9"
)

var genesisKey = gotext.VersionKey{Ref: "Genesis 1:1", Language: "en", VersionTitle: "JPS 1985"}

func genesisVersion() *gotext.Version {
	return &gotext.Version{
		Ref:          "Genesis 1:1",
		Language:     "en",
		VersionTitle: "JPS 1985",
		Text:         json.RawMessage(`"In the beginning"`),
	}
}

func TestRedisStore_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, 3600, "test:")

	data, _ := json.Marshal(genesisVersion())
	mock.ExpectGet("test:11:Genesis 1:1|2:en|JPS 1985").SetVal(string(data))

	v, ok := store.Get(genesisKey)
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if v.VersionTitle != "JPS 1985" || string(v.Text) != `"In the beginning"` {
		t.Errorf("Unexpected version: %+v", v)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, 3600, "test:")

	mock.ExpectGet("test:11:Genesis 1:1|2:en|JPS 1985").RedisNil()

	v, ok := store.Get(genesisKey)
	if ok || v != nil {
		t.Errorf("Expected cache miss, got %v", v)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Corrupt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectGet("test:11:Genesis 1:1|2:en|JPS 1985").SetVal("not json")

	if _, ok := store.Get(genesisKey); ok {
		t.Error("Corrupt value should be a miss")
	}
}

func TestRedisStore_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, 3600, "test:")

	data, _ := json.Marshal(genesisVersion())
	mock.ExpectSet("test:11:Genesis 1:1|2:en|JPS 1985", data, 3600*time.Second).SetVal("OK")

	if err := store.Set(genesisKey, genesisVersion()); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Set_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, 0, "test:")

	data, _ := json.Marshal(genesisVersion())
	mock.ExpectSet("test:11:Genesis 1:1|2:en|JPS 1985", data, 0).SetVal("OK")

	if err := store.Set(genesisKey, genesisVersion()); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	db, _ := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, 0, "")

	if got := store.Key(genesisKey); got != "gotext:11:Genesis 1:1|2:en|JPS 1985" {
		t.Errorf("Unexpected key %q", got)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db, 3600, "test:")

	mock.ExpectPing().SetVal("PONG")

	if err := store.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

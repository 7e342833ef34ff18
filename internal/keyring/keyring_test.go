package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	tests := []struct {
		name   string
		entry  Entry
		secret string
	}{
		{name: "api key", entry: APIKey, secret: "AIza-test-key"},
		{name: "connection string", entry: ConnectionString, secret: "postgres://habitual@localhost:5432/habits?sslmode=disable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Set(tt.entry, tt.secret); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, err := Get(tt.entry)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got != tt.secret {
				t.Errorf("Get() = %q, want %q", got, tt.secret)
			}
		})
	}
}

func TestEntriesAreIndependent(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(APIKey, "key-1"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_ = Delete(ConnectionString)

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want ErrNotFound", err)
	}
	if key, err := GetAPIKey(); err != nil || key != "key-1" {
		t.Errorf("GetAPIKey() = %q, %v", key, err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(APIKey, ""); err == nil {
		t.Error("Set() with empty secret should return an error")
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(APIKey, "key"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := Delete(APIKey); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(APIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Delete(), Get() error = %v, want ErrNotFound", err)
	}
	if err := Delete(APIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	defer gokeyring.MockInit()

	_, err := Get(APIKey)
	if !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want ErrKeyringUnavailable", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with failing keyring")
	}
}

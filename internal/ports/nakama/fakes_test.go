package nakama

import (
	"context"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// fakeNK implements the parts of runtime.NakamaModule the adapters use.
// Calling anything else panics on the nil embedded interface.
type fakeNK struct {
	runtime.NakamaModule

	storage  map[string]string
	accounts map[string]*api.Account
	updates  map[string]string // userID -> display name set

	matches    []*api.Match
	created    int
	lastQuery  string
	storageErr error
}

func newFakeNK() *fakeNK {
	return &fakeNK{
		storage:  make(map[string]string),
		accounts: make(map[string]*api.Account),
		updates:  make(map[string]string),
	}
}

func storageKey(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (f *fakeNK) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if f.storageErr != nil {
		return nil, f.storageErr
	}
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		k := storageKey(w.Collection, w.Key, w.UserID)
		if _, exists := f.storage[k]; exists && w.Version == "*" {
			return nil, runtime.ErrStorageRejectedVersion
		}
		f.storage[k] = w.Value
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID})
	}
	return acks, nil
}

func (f *fakeNK) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	if f.storageErr != nil {
		return nil, f.storageErr
	}
	var out []*api.StorageObject
	// Reverse order: callers must not rely on result order.
	for i := len(reads) - 1; i >= 0; i-- {
		r := reads[i]
		if v, ok := f.storage[storageKey(r.Collection, r.Key, r.UserID)]; ok {
			out = append(out, &api.StorageObject{Collection: r.Collection, Key: r.Key, UserId: r.UserID, Value: v})
		}
	}
	return out, nil
}

func (f *fakeNK) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	if acc, ok := f.accounts[userID]; ok {
		return acc, nil
	}
	return nil, errors.New("account not found")
}

func (f *fakeNK) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	if userID == "" {
		return errors.New("userID is required")
	}
	f.updates[userID] = displayName
	return nil
}

func (f *fakeNK) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.lastQuery = query
	return f.matches, nil
}

func (f *fakeNK) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	if module != MatchNameFortyOne {
		return "", fmt.Errorf("unknown module %s", module)
	}
	f.created++
	return fmt.Sprintf("match-%d", f.created), nil
}

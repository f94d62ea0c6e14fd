package main

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

// DataLoaderContextKey is the key used to store dataloaders in context
type DataLoaderContextKey string

const dataLoaderKey DataLoaderContextKey = "dataloader"

// DataLoaders holds the per-request loaders.
type DataLoaders struct {
	// MemberLoader resolves an email to its registered user, nil when the
	// address has no account.
	MemberLoader *dataloader.Loader[string, *User]
}

// NewDataLoaders creates new dataloaders backed by st
func NewDataLoaders(st Store) *DataLoaders {
	return &DataLoaders{
		MemberLoader: dataloader.NewBatchedLoader(memberBatchFn(st), dataloader.WithWait[string, *User](16*time.Millisecond)),
	}
}

// GetDataLoadersFromContext retrieves dataloaders from context
func GetDataLoadersFromContext(ctx context.Context) *DataLoaders {
	if dl, ok := ctx.Value(dataLoaderKey).(*DataLoaders); ok {
		return dl
	}
	return nil
}

// WithDataLoaders adds dataloaders to context
func WithDataLoaders(ctx context.Context, dl *DataLoaders) context.Context {
	return context.WithValue(ctx, dataLoaderKey, dl)
}

func memberBatchFn(st Store) dataloader.BatchFunc[string, *User] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*User] {
		results := make([]*dataloader.Result[*User], len(keys))
		for i := range results {
			results[i] = &dataloader.Result[*User]{}
		}
		if len(keys) == 0 {
			return results
		}

		users, err := st.UsersByEmail(ctx, keys)
		if err != nil {
			for i := range results {
				results[i].Error = err
			}
			return results
		}
		for i, key := range keys {
			if u, ok := users[key]; ok {
				results[i].Data = &u
			}
		}
		return results
	}
}

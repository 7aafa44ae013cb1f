// Package cell binds a string key to a typed value backed by a durable byte store.
//
// A Cell is loaded once with Load. Loading never fails: an absent key, a read
// error, or a value the Codec cannot decode all yield the supplied default.
// Every Set writes through to the store synchronously and then notifies
// subscribers with the new value.
//
// Usage:
//
//	c := cell.Load(ctx, st, "happiness", cell.JSON[int]{}, 5)
//	c.Set(ctx, c.Get()+1)
package cell

// Package pet holds the creature's state: a happiness level in [0, 10] and
// the zone it lives in.
//
// Both values live in persisted cells under distinct keys ("happiness" and
// "zone"), so a corrupt or missing value for one never affects the other.
// Loading falls back to the defaults (5 and desert) without reporting an
// error. Happiness only changes through Adjust, which clamps unconditionally.
//
// A Pet is an explicit state holder: create one with Load and pass it to the
// decay ticker and the views that need it.
package pet

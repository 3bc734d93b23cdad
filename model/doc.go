// Package model declares the Bun models of the cars store: owners, cars with
// their engines, and sale posts with photos.
package model

// Package repository implements the data-access layer of the cars store on
// top of Bun. Entity repositories depend on the narrow Session interface;
// CrudRepository is its database-backed implementation.
package repository

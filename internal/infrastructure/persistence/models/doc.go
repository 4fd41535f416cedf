// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Every model offers ToDomain and FromDomain mappers; repositories only ever
// read and write models.
package models

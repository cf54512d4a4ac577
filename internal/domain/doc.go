// Package domain contains the core business entities and value objects of
// the application: flashcards, card collections, and users. It is independent
// of any specific infrastructure or delivery mechanism.
package domain

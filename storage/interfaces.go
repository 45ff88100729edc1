package storage

import "michelin-scraper/models"

// ListingWriter is the interface any listing storage backend must satisfy.
type ListingWriter interface {
	Write(restaurants []models.Restaurant) error
	Close() error
}

// DetailWriter is the interface for persisting detail results.
type DetailWriter interface {
	Write(results []models.DetailResult) error
	Close() error
}

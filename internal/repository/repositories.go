package repository

import (
	"github.com/deppfellow/shopbuilder/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Documents Documents
}

// NewRepositories builds the container on the server's Mongo database.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Documents: NewMongoDocuments(s.DB.DB),
	}
}

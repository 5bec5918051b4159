package ports

import (
	"context"
	"io"

	"github.com/biddaddy/auction-api/internal/core/domain"
)

// Media store folders, one per entity type.
const (
	FolderAuctions = "auctions"
	FolderProfiles = "profiles"
)

// MediaFile is an image attachment received from the transport layer.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MediaStore uploads images and returns a stable (id, url) pair.
type MediaStore interface {
	Upload(ctx context.Context, file MediaFile, folder string) (domain.ImageRef, error)
}

package storage

import (
	"context"
	"fmt"
	"io"

	"kigalimove/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/asset"
)

// ApplicationDocumentsFolder holds documents attached to job applications.
const ApplicationDocumentsFolder = "kigalimove/applications"

// DocumentStore uploads and serves application documents.
type DocumentStore interface {
	Upload(ctx context.Context, file io.Reader, filename, destFolder string) (*models.DocumentRef, error)
	Delete(ctx context.Context, doc models.DocumentRef) error
	SignedURL(doc models.DocumentRef) (string, error)
}

// StorageServiceImpl implements DocumentStore on Cloudinary. Files are stored
// with the authenticated delivery type so they are never publicly reachable.
type StorageServiceImpl struct {
	cld *cloudinary.Cloudinary
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary) *StorageServiceImpl {
	return &StorageServiceImpl{cld: cld}
}

// Upload streams a file to Cloudinary into the specified folder.
func (s *StorageServiceImpl) Upload(ctx context.Context, file io.Reader, filename, destFolder string) (*models.DocumentRef, error) {
	uploadParams := uploader.UploadParams{
		Folder:         destFolder,
		ResourceType:   api.Auto,
		Type:           api.Authenticated,
		UseFilename:    boolPtr(filename != ""),
		UniqueFilename: boolPtr(true),
	}
	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to upload file: %w", err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("StorageServiceImpl: no public ID returned")
	}
	resourceType := result.ResourceType
	if resourceType == "" {
		resourceType = string(api.Image)
	}
	return &models.DocumentRef{
		PublicID:     result.PublicID,
		ResourceType: resourceType,
		Format:       result.Format,
	}, nil
}

// Delete removes a stored document.
func (s *StorageServiceImpl) Delete(ctx context.Context, doc models.DocumentRef) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     doc.PublicID,
		Type:         api.Authenticated,
		ResourceType: doc.ResourceType,
	})
	if err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete file: %w", err)
	}
	return nil
}

// SignedURL builds a delivery link for an authenticated document. Cloudinary
// only serves it while the signature matches the path.
func (s *StorageServiceImpl) SignedURL(doc models.DocumentRef) (string, error) {
	var (
		a   *asset.Asset
		err error
	)
	publicID := doc.PublicID
	switch api.AssetType(doc.ResourceType) {
	case api.File:
		// raw public IDs already carry the extension
		a, err = s.cld.File(publicID)
	case api.Video:
		a, err = s.cld.Video(withFormat(publicID, doc.Format))
	default:
		a, err = s.cld.Image(withFormat(publicID, doc.Format))
	}
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to build asset: %w", err)
	}
	a.DeliveryType = api.Authenticated
	a.Config.URL.SignURL = true
	a.Config.URL.Secure = true

	link, err := a.String()
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to sign document link: %w", err)
	}
	return link, nil
}

func withFormat(publicID, format string) string {
	if format == "" {
		return publicID
	}
	return publicID + "." + format
}

func boolPtr(b bool) *bool { return &b }

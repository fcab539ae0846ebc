package storage

import (
	"strings"
	"testing"

	"kigalimove/models"

	"github.com/cloudinary/cloudinary-go/v2"
)

func newTestStore(t *testing.T) *StorageServiceImpl {
	t.Helper()
	cld, err := cloudinary.NewFromParams("kigalimove-test", "123456789", "not-a-real-secret")
	if err != nil {
		t.Fatalf("NewFromParams: %v", err)
	}
	return NewStorageService(cld)
}

func TestSignedURL(t *testing.T) {
	store := newTestStore(t)
	tests := []struct {
		name string
		doc  models.DocumentRef
		want []string
	}{
		{
			name: "image keeps its format",
			doc:  models.DocumentRef{PublicID: ApplicationDocumentsFolder + "/licence_x1", ResourceType: "image", Format: "jpg"},
			want: []string{"https://", "/kigalimove-test/image/authenticated/s--", "kigalimove/applications/licence_x1.jpg"},
		},
		{
			name: "raw file",
			doc:  models.DocumentRef{PublicID: ApplicationDocumentsFolder + "/cv_x2.docx", ResourceType: "raw"},
			want: []string{"/kigalimove-test/raw/authenticated/s--", "kigalimove/applications/cv_x2.docx"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.SignedURL(tt.doc)
			if err != nil {
				t.Fatalf("SignedURL: %v", err)
			}
			for _, part := range tt.want {
				if !strings.Contains(got, part) {
					t.Errorf("SignedURL = %q, missing %q", got, part)
				}
			}
			if strings.Contains(got, "/upload/") {
				t.Errorf("SignedURL = %q points at public delivery", got)
			}
		})
	}
}

func TestSignedURLDependsOnDocument(t *testing.T) {
	store := newTestStore(t)
	a, _ := store.SignedURL(models.DocumentRef{PublicID: "kigalimove/applications/a", ResourceType: "image", Format: "png"})
	b, _ := store.SignedURL(models.DocumentRef{PublicID: "kigalimove/applications/b", ResourceType: "image", Format: "png"})
	if signature(a) == "" || signature(a) == signature(b) {
		t.Fatalf("signatures not distinct: %q vs %q", a, b)
	}
}

func signature(link string) string {
	start := strings.Index(link, "/s--")
	if start < 0 {
		return ""
	}
	rest := link[start+4:]
	end := strings.Index(rest, "--/")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

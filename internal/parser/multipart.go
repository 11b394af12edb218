package parser

import (
	"io"
	"mime/multipart"
	"strings"

	"lusogate/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

type multipartStrategy struct {
	maxMemory int64
}

func (s multipartStrategy) Parse(body io.Reader, params map[string]string) (*Body, error) {
	boundary := params["boundary"]
	if boundary == "" {
		return nil, newParseError(KindMultipart, ReasonMissingBoundary, nil)
	}

	// Parts beyond maxMemory spill to temporary files.
	form, err := multipart.NewReader(body, boundary).ReadForm(s.maxMemory)
	if err != nil {
		return nil, newParseError(KindMultipart, ReasonMalformed, err)
	}

	if len(form.Value) == 0 && len(form.File) == 0 {
		form.RemoveAll()
		return nil, newParseError(KindMultipart, ReasonEmpty, nil)
	}

	rec := recordFromValues(form.Value)
	for field, headers := range form.File {
		descriptors := make([]models.FileDescriptor, 0, len(headers))
		for _, fh := range headers {
			d, err := describe(fh)
			if err != nil {
				form.RemoveAll()
				return nil, newParseError(KindMultipart, ReasonUnreadableFile, err)
			}
			descriptors = append(descriptors, d)
		}
		if len(descriptors) == 1 {
			rec[field] = descriptors[0]
		} else {
			rec[field] = descriptors
		}
	}

	return &Body{Record: rec, cleanup: form.RemoveAll}, nil
}

// describe sniffs the content type from the first bytes of the part. The
// client-declared Content-Type of the part is ignored.
func describe(fh *multipart.FileHeader) (models.FileDescriptor, error) {
	f, err := fh.Open()
	if err != nil {
		return models.FileDescriptor{}, err
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return models.FileDescriptor{}, err
	}

	mediaType, _, _ := strings.Cut(mtype.String(), ";")

	return models.FileDescriptor{
		Name:     fh.Filename,
		Size:     fh.Size,
		MimeType: strings.TrimSpace(mediaType),
		Handle:   fh,
	}, nil
}

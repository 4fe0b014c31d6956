package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Prepare decodes image, honouring EXIF orientation, and re-encodes it as
// PNG for the engine. Pixels are otherwise left as uploaded. Bytes that are
// not a decodable image yield ErrUnsupportedImage.
func Prepare(image []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

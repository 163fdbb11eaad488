package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes PNG, JPEG, GIF, WebP or BMP data into RGBA and also returns the
// natural size. Images larger than maxSize on either side are scaled down to fit,
// keeping the aspect ratio. maxSize <= 0 disables scaling.
func DecodeImage(data []byte, maxSize int) (*image.RGBA, image.Point, error) {
	if !filetype.IsImage(data) {
		return nil, image.Point{}, fmt.Errorf("%w: not an image", ErrUnsupported)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("assets: decode image: %w", err)
	}
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil, size, fmt.Errorf("assets: decode image: empty %v", size)
	}
	if maxSize > 0 && (size.X > maxSize || size.Y > maxSize) {
		nw, nh := fit(size.X, size.Y, maxSize)
		return transform.Resize(img, nw, nh, transform.Linear), size, nil
	}
	return clone.AsRGBA(img), size, nil
}

func fit(w, h, limit int) (int, int) {
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

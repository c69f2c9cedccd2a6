package pdf

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRImage_PNG8Bits(t *testing.T) {
	data, err := qrImage("Facture N° 12/26\nTotal : 214,20 DA")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimetype.Detect(data).String())

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.IsType(t, &image.Gray{}, img)
	assert.Equal(t, qrPixels, img.Bounds().Dx())
	assert.Equal(t, qrPixels, img.Bounds().Dy())
}

func TestQRImage_Deterministe(t *testing.T) {
	a, err := qrImage("Devis N° 3/26")
	require.NoError(t, err)
	b, err := qrImage("Devis N° 3/26")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

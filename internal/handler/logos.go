package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"meubleerp/internal/apierror"
	"meubleerp/internal/dto"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxLogoSize caps uploaded logos.
const MaxLogoSize = 5 << 20

// logoTypes are the formats the PDF renderer can embed.
var logoTypes = []string{"image/png", "image/jpeg"}

// LogosHandler stores custom document logos in a single directory shared by
// every document kind.
type LogosHandler struct {
	dir string
}

func NewLogosHandler(dir string) *LogosHandler { return &LogosHandler{dir: dir} }

// Upload godoc
// @Summary      Téléverser un logo
// @Description  Champ multipart "logo", PNG ou JPEG, 5 Mo maximum. Le nom retourné se place dans logo_personnalise.
// @Tags         logos
// @Accept       multipart/form-data
// @Produce      json
// @Param        type path     string true "devis | facture | bon-livraison | recu-paiement"
// @Param        logo formData file   true "Image du logo"
// @Success      201  {object} dto.LogoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      413  {object} apierror.APIError
// @Router       /{type}/upload-logo [post]
func (h *LogosHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxLogoSize+1<<20)

	fh, err := c.FormFile("logo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("logo trop volumineux (5 Mo maximum)"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("champ \"logo\" manquant"))
		return
	}
	if fh.Size > MaxLogoSize {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("logo trop volumineux (5 Mo maximum)"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("fichier illisible"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxLogoSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("fichier illisible"))
		return
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), logoTypes...) {
		c.JSON(http.StatusBadRequest, apierror.New("le logo doit être une image PNG ou JPEG (reçu "+mt.String()+")"))
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", h.dir).Msg("logo: create dir")
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur interne du serveur"))
		return
	}
	name := "logo-" + uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(h.dir, name), data, 0o644); err != nil {
		log.Error().Err(err).Str("file", name).Msg("logo: write")
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur interne du serveur"))
		return
	}
	c.JSON(http.StatusCreated, dto.LogoResponse{Filename: name})
}

// Serve godoc
// @Summary      Lire un logo
// @Tags         logos
// @Produce      image/png
// @Param        type     path string true "devis | facture | bon-livraison | recu-paiement"
// @Param        logoName path string true "Nom retourné par l'upload"
// @Success      200 {file} binary
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /{type}/logo/{logoName} [get]
func (h *LogosHandler) Serve(c *gin.Context) {
	name := c.Param("logoName")
	if !validLogoName(name) {
		c.JSON(http.StatusBadRequest, apierror.New("nom de logo invalide"))
		return
	}
	path := filepath.Join(h.dir, name)
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		c.JSON(http.StatusNotFound, apierror.New("logo introuvable"))
		return
	}
	c.File(path)
}

// validLogoName rejects anything that could leave the logo directory.
func validLogoName(name string) bool {
	return name != "" &&
		name == filepath.Base(name) &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, `/\`)
}

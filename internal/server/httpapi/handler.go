package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/server/models"
	"github.com/dmitrijs2005/memokeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the upload limit for form headers
// and boundaries.
const multipartOverhead = 1 << 20

type errorResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	MaxUploadSizeMiB int `json:"maxUploadSizeMiB"`
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{MaxUploadSizeMiB: h.resources.MaxUploadSizeMiB()})
}

func (h *Handler) ListResources(c *gin.Context) {
	var find models.ResourceFind
	var err error

	if v := c.Query("limit"); v != "" {
		if find.Limit, err = strconv.Atoi(v); err != nil {
			h.writeError(c, fmt.Errorf("%w: bad limit %q", common.ErrorValidation, v))
			return
		}
	}
	if v := c.Query("offset"); v != "" {
		if find.Offset, err = strconv.Atoi(v); err != nil {
			h.writeError(c, fmt.Errorf("%w: bad offset %q", common.ErrorValidation, v))
			return
		}
	}

	list, err := h.resources.List(c.Request.Context(), find)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []*models.Resource{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateResource(c *gin.Context) {
	var in models.ResourceCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	res, err := h.resources.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UploadResource(c *gin.Context) {
	limit := int64(h.resources.MaxUploadSizeMiB()) * common.MiB
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	hdr, err := c.FormFile(common.UploadFormField)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.writeError(c, common.ErrorFileTooLarge)
			return
		}
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}

	f, err := hdr.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	res, err := h.resources.Upload(c.Request.Context(), services.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        f,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) PatchResource(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var patch models.ResourcePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.writeError(c, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}
	patch.ID = id

	res, err := h.resources.Patch(c.Request.Context(), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteResource(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.resources.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

// ServeResource streams a stored blob, or redirects for link-only resources.
func (h *Handler) ServeResource(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	res, rc, err := h.resources.OpenBlob(c.Request.Context(), id, c.Param("filename"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if rc == nil {
		c.Redirect(http.StatusFound, res.ExternalLink)
		return
	}
	defer rc.Close()

	contentType := res.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, res.Size, contentType, rc, nil)
}

func (h *Handler) pathID(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		h.writeError(c, fmt.Errorf("%w: bad resource id %q", common.ErrorValidation, c.Param("id")))
		return 0, false
	}
	return int32(id), true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, common.ErrorFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
			Message: fmt.Sprintf("file size exceeds allowed limit of %d MiB", h.resources.MaxUploadSizeMiB()),
		})
	default:
		h.logger.Error(ctx, "request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: common.ErrorInternal.Error()})
	}
}

package httpapi

import (
	"context"
	"io"

	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
	"github.com/dmitrijs2005/memokeeper/internal/server/models"
	"github.com/dmitrijs2005/memokeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// ResourceService is what the handlers need from the business layer.
type ResourceService interface {
	MaxUploadSizeMiB() int
	List(ctx context.Context, find models.ResourceFind) ([]*models.Resource, error)
	Create(ctx context.Context, in models.ResourceCreate) (*models.Resource, error)
	Upload(ctx context.Context, in services.Upload) (*models.Resource, error)
	Patch(ctx context.Context, patch models.ResourcePatch) (*models.Resource, error)
	Delete(ctx context.Context, id int32) error
	OpenBlob(ctx context.Context, id int32, filename string) (*models.Resource, io.ReadCloser, error)
}

type Handler struct {
	resources ResourceService
	logger    logging.Logger
}

func NewHandler(rs ResourceService, l logging.Logger) *Handler {
	return &Handler{resources: rs, logger: l.With("module", "http_handler")}
}

// NewRouter wires every route of the resource API.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(h.logger))

	api := r.Group(common.APIPrefix)
	api.GET("/ping", h.Ping)
	api.GET("/status", h.Status)

	res := api.Group("/resource")
	res.GET("", h.ListResources)
	res.POST("", h.CreateResource)
	res.POST("/blob", h.UploadResource)
	res.PATCH("/:id", h.PatchResource)
	res.DELETE("/:id", h.DeleteResource)

	r.GET(common.ResourceFilePrefix+"/:id/:filename", h.ServeResource)
	return r
}

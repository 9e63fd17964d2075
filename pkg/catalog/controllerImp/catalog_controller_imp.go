package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/pkg/catalog"
)

type CatalogCtrl struct{ cat *catalog.Catalog }

func New(cat *catalog.Catalog) *CatalogCtrl { return &CatalogCtrl{cat} }

func (h *CatalogCtrl) Register(g *echo.Group) { g.GET("/catalog", h.Get) }

func (h *CatalogCtrl) Get(c echo.Context) error { return c.JSON(http.StatusOK, h.cat) }

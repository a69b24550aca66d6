// Public directory HTTP handlers.
//
// This file exposes the read-only reference-data pools:
//   - GET /public/restaurants
//   - GET /public/recipients
//   - GET /public/foodbanks
//
// Each endpoint supports three modes selected by query parameters:
// proximity ranking (lat and lng, optional limit), substring search
// (search), or a plain listing. The pools come from the public bucket
// snapshots and require no authentication.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodbridge/go-donation-backend/internal/geo"
	"github.com/foodbridge/go-donation-backend/internal/publicdata"
	"github.com/foodbridge/go-donation-backend/internal/utils"
)

// directoryQuery bundles the three access modes of one pool so the
// endpoint handlers stay declarative.
type directoryQuery struct {
	list   func(ctx context.Context) ([]publicdata.Record, error)
	search func(ctx context.Context, term string) ([]publicdata.Record, error)
	nearby func(ctx context.Context, origin geo.Point, limit int) ([]publicdata.Record, error)
}

// PublicRestaurants godoc
// @ID          publicRestaurants
// @Summary     Browse partner restaurants
// @Description Lists the public restaurant pool. Rank by distance with lat/lng (optional limit) or filter with search.
// @Tags        Public
// @Produce     json
//
// @Param       search  query  string  false "Case-insensitive name or address filter"
// @Param       lat     query  number  false "Origin latitude"
// @Param       lng     query  number  false "Origin longitude"
// @Param       limit   query  int     false "Maximum results for proximity ranking"  minimum(1)
//
// @Success     200  {array}  publicdata.Record
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     502  {object} handlers.ErrorResponse "Reference data unavailable"
// @Router      /public/restaurants [get]
func (h *Handlers) PublicRestaurants(c *gin.Context) {
	h.servePool(c, directoryQuery{
		list:   h.directory.ListRestaurants,
		search: h.directory.SearchRestaurants,
		nearby: h.directory.NearbyRestaurants,
	})
}

// PublicRecipients godoc
// @ID          publicRecipients
// @Summary     Browse registered recipients
// @Description Lists the public recipient pool. Rank by distance with lat/lng (optional limit) or filter with search.
// @Tags        Public
// @Produce     json
//
// @Param       search  query  string  false "Case-insensitive name or address filter"
// @Param       lat     query  number  false "Origin latitude"
// @Param       lng     query  number  false "Origin longitude"
// @Param       limit   query  int     false "Maximum results for proximity ranking"  minimum(1)
//
// @Success     200  {array}  publicdata.Record
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     502  {object} handlers.ErrorResponse "Reference data unavailable"
// @Router      /public/recipients [get]
func (h *Handlers) PublicRecipients(c *gin.Context) {
	h.servePool(c, directoryQuery{
		list:   h.directory.ListRecipients,
		search: h.directory.SearchRecipients,
		nearby: h.directory.NearbyRecipients,
	})
}

// PublicFoodbanks godoc
// @ID          publicFoodbanks
// @Summary     Browse food banks
// @Description Lists the public food-bank pool. Rank by distance with lat/lng (optional limit) or filter with search.
// @Tags        Public
// @Produce     json
//
// @Param       search  query  string  false "Case-insensitive name or address filter"
// @Param       lat     query  number  false "Origin latitude"
// @Param       lng     query  number  false "Origin longitude"
// @Param       limit   query  int     false "Maximum results for proximity ranking"  minimum(1)
//
// @Success     200  {array}  publicdata.Record
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     502  {object} handlers.ErrorResponse "Reference data unavailable"
// @Router      /public/foodbanks [get]
func (h *Handlers) PublicFoodbanks(c *gin.Context) {
	h.servePool(c, directoryQuery{
		list:   h.directory.ListFoodbanks,
		search: h.directory.SearchFoodbanks,
		nearby: h.directory.NearbyFoodbanks,
	})
}

// servePool dispatches one pool request to the right access mode and
// maps directory errors onto the HTTP taxonomy.
func (h *Handlers) servePool(c *gin.Context, q directoryQuery) {
	ctx := c.Request.Context()

	origin, err := parseOrigin(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	var recs []publicdata.Record
	switch {
	case origin != nil:
		limit := utils.AtoiDefault(c.Query("limit"), 0)
		recs, err = q.nearby(ctx, *origin, limit)
	case c.Query("search") != "":
		recs, err = q.search(ctx, c.Query("search"))
	default:
		recs, err = q.list(ctx)
	}

	switch {
	case err == nil:
		if recs == nil {
			recs = []publicdata.Record{}
		}
		ok(c, http.StatusOK, recs)
	case errors.Is(err, geo.ErrInvalidLimit):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be positive")
	case errors.Is(err, publicdata.ErrUpstreamUnavailable):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamUnavailable, "reference data unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
	}
}

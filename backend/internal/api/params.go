package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"orkg-backend/backend/internal/graph"
	"orkg-backend/backend/internal/ids"
	"orkg-backend/backend/internal/paging"
	apperrors "orkg-backend/backend/pkg/errors"
)

const (
	contributorHeader = "X-Contributor-Id"
	defaultPageSize   = 20
	maxPageSize       = 2500
)

// pageRequest reads page, size and the repeatable sort parameter
func pageRequest(c *gin.Context) (paging.Request, error) {
	number, err := intQuery(c, "page", 0)
	if err != nil {
		return paging.Request{}, err
	}
	size, err := intQuery(c, "size", defaultPageSize)
	if err != nil {
		return paging.Request{}, err
	}
	if number < 0 {
		return paging.Request{}, apperrors.NewValidation("page", "must not be negative")
	}
	if size < 1 || size > maxPageSize {
		return paging.Request{}, apperrors.NewValidation("size", "must be between 1 and "+strconv.Itoa(maxPageSize))
	}
	sort, err := paging.ParseSort(c.QueryArray("sort"))
	if err != nil {
		return paging.Request{}, err
	}
	return paging.Of(number, size, sort...), nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidation(name, "must be an integer")
	}
	return n, nil
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidation(name, "must be true or false")
	}
	return b, nil
}

// thingParam parses a path parameter as a thing id
func thingParam(c *gin.Context, name string) (ids.ThingID, error) {
	return ids.ParseThingID(c.Param(name))
}

// optionalThing parses a query parameter as a thing id; an absent parameter gives the zero id
func optionalThing(c *gin.Context, name string) (ids.ThingID, error) {
	raw := c.Query(name)
	if raw == "" {
		return ids.ThingID{}, nil
	}
	return ids.ParseThingID(raw)
}

// contentQuery reads include_subfields and visibility
func contentQuery(c *gin.Context) (graph.FieldContentQuery, error) {
	include, err := boolQuery(c, "include_subfields")
	if err != nil {
		return graph.FieldContentQuery{}, err
	}
	visibility, err := graph.ParseVisibilityFilter(c.Query("visibility"))
	if err != nil {
		return graph.FieldContentQuery{}, err
	}
	return graph.FieldContentQuery{IncludeSubfields: include, Visibility: visibility}, nil
}

// contributor reads the acting contributor. Requests without the header act as the
// unknown contributor.
func contributor(c *gin.Context) (ids.ContributorID, error) {
	raw := c.GetHeader(contributorHeader)
	if raw == "" {
		return ids.ContributorID{}, nil
	}
	return ids.ParseContributorID(raw)
}

// bindJSON decodes the body into dst, reporting malformed bodies as validation errors
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.NewValidation("body", err.Error())
	}
	return nil
}

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/erazemk/retailapi/internal/model"
)

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, invalid("id", "must be an integer")
	}
	return id, nil
}

// pageRequest reads page and per_page, applying defaults and rejecting
// out-of-range values.
func pageRequest(q url.Values) (model.PageRequest, *ValidationError) {
	req := model.PageRequest{Page: model.DefaultPage, PerPage: model.DefaultPerPage}
	var verr *ValidationError

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr = verr.add("page", "must be an integer")
		} else {
			req.Page = n
		}
	}
	if raw := q.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr = verr.add("per_page", "must be an integer")
		} else {
			req.PerPage = n
		}
	}
	if verr != nil {
		return req, verr
	}

	if err := req.Validate(); err != nil {
		if rangeErr, ok := err.(*model.RangeError); ok {
			return req, invalid(rangeErr.Field, rangeErr.Message)
		}
		return req, invalid("pagination", err.Error())
	}
	return req, nil
}

// queryBool parses a boolean query parameter, returning def when absent.
func queryBool(q url.Values, name string, def bool) (bool, *ValidationError) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return def, invalid(name, "must be a boolean")
}

// queryStatus parses an order status query parameter. A missing value yields
// nil unless required is set.
func queryStatus(q url.Values, required bool) (*model.OrderStatus, *ValidationError) {
	raw := q.Get("status")
	if raw == "" {
		if required {
			return nil, invalid("status", "field required")
		}
		return nil, nil
	}
	status, err := model.ParseOrderStatus(raw)
	if err != nil {
		return nil, invalid("status", "must be one of "+statusList())
	}
	return &status, nil
}

func statusList() string {
	names := make([]string, len(model.OrderStatuses))
	for i, s := range model.OrderStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

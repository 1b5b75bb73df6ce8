package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"
)

const maxBodyBytes = 1 << 20

func parsePositiveInt(s string, defaultVal int) int {
	if val, err := strconv.Atoi(s); err == nil && val > 0 {
		return val
	}
	return defaultVal
}

func parsePage(q url.Values) model.Page {
	return model.NewPage(
		parsePositiveInt(q.Get("page"), model.DefaultPage),
		parsePositiveInt(q.Get("limit"), model.DefaultLimit),
	)
}

// parseTags accepts both ?tags=a,b and repeated ?tags=a&tags=b.
func parseTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	return tags
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBadRequest, err)
	}
	return nil
}

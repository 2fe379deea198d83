package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseListParams extracts the state/from/size query triple used by the
// paginated list endpoints. Absent parameters take their defaults: state
// ALL, from 0, size 10.
func parseListParams(c *gin.Context) (state string, from, size int, err error) {
	state = c.DefaultQuery("state", "ALL")

	from, err = strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		return "", 0, 0, errors.New("from must be an integer")
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		return "", 0, 0, errors.New("size must be an integer")
	}
	return state, from, size, nil
}

// parsePageParams is parseListParams without the state filter, for the item
// endpoints.
func parsePageParams(c *gin.Context) (from, size int, err error) {
	from, err = strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		return 0, 0, errors.New("from must be an integer")
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		return 0, 0, errors.New("size must be an integer")
	}
	return from, size, nil
}

package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pageParams — пагинация в стиле page/limit; limit по умолчанию свой
// у каждого списка.
func pageParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

func listEnvelope(data any, total, page, limit int) gin.H {
	return gin.H{
		"data":  data,
		"total": total,
		"page":  page,
		"limit": limit,
	}
}

package mvc

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Page struct {
	PageNum int    `json:"pageNum" query:"pageNum"`
	Size    int    `json:"size" query:"size"`
	Sort    string `json:"sort" query:"sort"`
	Desc    bool   `json:"desc" query:"desc"`
}

// Normalize 返回修正后的页码与页大小
func (page *Page) Normalize() (int, int) {
	if page == nil {
		return 1, defaultPageSize
	}
	pageNum, size := page.PageNum, page.Size
	if pageNum <= 0 {
		pageNum = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return pageNum, size
}

func (page *Page) Offset() int {
	pageNum, size := page.Normalize()
	return (pageNum - 1) * size
}

// Paginate gorm scope：分页与排序
func Paginate(page *Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		_, size := page.Normalize()
		db = db.Offset(page.Offset()).Limit(size)
		if page != nil && page.Sort != "" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: page.Sort}, Desc: page.Desc})
		}
		return db
	}
}

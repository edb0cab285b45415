package repository

import (
	"strings"

	"gorm.io/gorm"

	"catalogadmin/internal/model"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// search ORs a case-insensitive substring match of term over columns.
func search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		cond := db.Session(&gorm.Session{NewDB: true})
		for i, col := range columns {
			clause := "LOWER(" + col + ") LIKE ? ESCAPE '!'"
			if i == 0 {
				cond = cond.Where(clause, pattern)
			} else {
				cond = cond.Or(clause, pattern)
			}
		}
		return db.Where(cond)
	}
}

// paginate applies offset and limit of q in identity order.
func paginate(q model.ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order("id ASC")
		if q.PerPage > 0 {
			db = db.Offset(q.Offset()).Limit(q.PerPage)
		}
		return db
	}
}

// deleted turns a delete result into gorm.ErrRecordNotFound when no row matched.
func deleted(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

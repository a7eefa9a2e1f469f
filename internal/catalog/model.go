package catalog

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "service not found")
	ErrNameTaken        = apperror.New(http.StatusConflict, "service name or slug already exists")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "service name is required")
	ErrEmptyDescription = apperror.New(http.StatusBadRequest, "service description is required")
	ErrInvalidCategory  = apperror.New(http.StatusBadRequest, "invalid category")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "price cannot be negative")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "duration must be positive")
	ErrInvalidWarranty  = apperror.New(http.StatusBadRequest, "warranty cannot be negative")
	ErrInvalidSort      = apperror.New(http.StatusBadRequest, "invalid sort")
)

type Category string

const (
	CategoryMaintenance Category = "maintenance"
	CategoryRepair      Category = "repair"
	CategoryCleaning    Category = "cleaning"
	CategoryInspection  Category = "inspection"
	CategoryEmergency   Category = "emergency"
)

var Categories = []Category{
	CategoryMaintenance, CategoryRepair, CategoryCleaning, CategoryInspection, CategoryEmergency,
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Offering is a bookable service in the catalog. Price is in minor currency units,
// Duration in minutes and Warranty in days.
type Offering struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Slug         string    `bson:"slug"`
	Description  string    `bson:"description"`
	Category     Category  `bson:"category"`
	Price        int64     `bson:"price"`
	Duration     int       `bson:"duration"`
	Image        string    `bson:"image"`
	IsActive     bool      `bson:"is_active"`
	Features     []string  `bson:"features"`
	Requirements []string  `bson:"requirements"`
	Warranty     int       `bson:"warranty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// Sort keys accepted by List. A leading "-" sorts descending.
var SortKeys = map[string]string{
	"name":     "name",
	"price":    "price",
	"duration": "duration",
	"newest":   "created_at",
}

// Filter defines parameters for listing offerings.
type Filter struct {
	Category        Category
	Search          string // case-insensitive match on name or description
	IncludeInactive bool
	Sort            string // e.g. "name", "-price"; default "name"
	Page            int
	PageSize        int
}

// sortSpec resolves Filter.Sort to a column and direction.
func sortSpec(sort string) (column string, desc bool, ok bool) {
	if sort == "" {
		sort = "name"
	}
	desc = strings.HasPrefix(sort, "-")
	column, ok = SortKeys[strings.TrimPrefix(sort, "-")]
	if column == "created_at" && !strings.HasPrefix(sort, "-") {
		desc = true
	}
	return column, desc, ok
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lowercases name and replaces whitespace runs with "-".
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

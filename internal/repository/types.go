package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page           int
	PageSize       int
	CategoryID     uint
	Search         string
	OnlyActive     bool
	WithVariations bool
}

// BannerListFilter 查询 Banner 列表的过滤条件
type BannerListFilter struct {
	Page      int
	PageSize  int
	Position  string
	IsActive  *bool
	OnlyValid bool
	OrderBy   string
}

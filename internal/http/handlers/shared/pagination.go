package shared

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePagination 收敛分页参数：页码至少为 1，页大小缺省 20、上限 100。
// 越界输入收敛到边界值，不作为错误处理，与商品服务侧的收敛规则一致。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

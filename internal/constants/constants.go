package constants

// 购物车状态
const (
	CartStatusActive    = "ACTIVE"
	CartStatusCompleted = "COMPLETED"
)

// Banner 投放位置
const (
	BannerPositionHome = "home_hero"
	BannerPositionLook = "home_look"
)

// Banner 跳转类型
const (
	BannerLinkNone     = "none"
	BannerLinkURL      = "url"
	BannerLinkProduct  = "product"
	BannerLinkCategory = "category"
)

// 队列名称
const (
	QueueDefault = "default"
)

// 异步任务类型
const (
	TaskCartExpire = "cart:expire"
)

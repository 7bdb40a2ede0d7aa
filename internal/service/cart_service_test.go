package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/velora-next/internal/constants"
	"github.com/velora-next/internal/models"
	"github.com/velora-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariation{},
		&models.VariationImage{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cartRepo := repository.NewCartRepository(db)
	variationRepo := repository.NewVariationRepository(db)
	return NewCartService(cartRepo, variationRepo), db
}

func seedVariation(t *testing.T, db *gorm.DB, price, salePrice int64, stock int) *models.ProductVariation {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Slug:       "p-" + uuid.NewString(),
		Name:       "测试商品",
		IsActive:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variation := &models.ProductVariation{
		ProductID: product.ID,
		Size:      "M",
		Color:     "Black",
		Price:     models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		SalePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(salePrice)),
		Stock:     stock,
	}
	if err := db.Create(variation).Error; err != nil {
		t.Fatalf("create variation failed: %v", err)
	}
	return variation
}

func variationStock(t *testing.T, db *gorm.DB, variationID string) int {
	t.Helper()
	var variation models.ProductVariation
	if err := db.Where("id = ?", variationID).First(&variation).Error; err != nil {
		t.Fatalf("load variation failed: %v", err)
	}
	return variation.Stock
}

func TestAddItemCreatesCartAndReservesStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 2}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if cart.TotalItems != 2 {
		t.Fatalf("expected total_items 2, got %d", cart.TotalItems)
	}
	if cart.TotalAmount.String() != "100.00" {
		t.Fatalf("expected total_amount 100.00, got %s", cart.TotalAmount.String())
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items))
	}
	if got := variationStock(t, db, variation.ID); got != 8 {
		t.Fatalf("expected stock 8, got %d", got)
	}
}

func TestAddItemUsesSalePriceSnapshot(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 100, 80, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 1}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if cart.Items[0].Price.String() != "80.00" {
		t.Fatalf("expected sale price snapshot 80.00, got %s", cart.Items[0].Price.String())
	}
	if cart.TotalAmount.String() != "80.00" {
		t.Fatalf("expected total_amount 80.00, got %s", cart.TotalAmount.String())
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	if _, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 2}, "user-1", false); err != nil {
		t.Fatalf("first AddItem error: %v", err)
	}
	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 3}, "user-1", false)
	if err != nil {
		t.Fatalf("second AddItem error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected single merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
	// 两次加购各扣各的增量
	if got := variationStock(t, db, variation.ID); got != 5 {
		t.Fatalf("expected stock 5, got %d", got)
	}
}

func TestAddItemInsufficientStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 1)

	_, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 2}, "user-1", false)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := variationStock(t, db, variation.ID); got != 1 {
		t.Fatalf("stock must be untouched, got %d", got)
	}

	// 失败的加购不留下购物车项
	var count int64
	if err := db.Model(&models.CartItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count items failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no cart items, got %d", count)
	}
}

func TestAddItemChecksTargetQuantityAgainstStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	if _, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 6}, "user-1", false); err != nil {
		t.Fatalf("first AddItem error: %v", err)
	}
	// 剩余 4：本次新增 3 单看可行，但合并既有 6 件后的目标 9 超出剩余
	_, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 3}, "user-1", false)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := variationStock(t, db, variation.ID); got != 4 {
		t.Fatalf("expected stock 4, got %d", got)
	}
}

func TestAddItemValidation(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	if _, err := svc.AddItem(AddToCartInput{VariationID: "v", Quantity: 1}, " ", false); !errors.Is(err, ErrIdentifierRequired) {
		t.Fatalf("expected ErrIdentifierRequired, got %v", err)
	}
	if _, err := svc.AddItem(AddToCartInput{VariationID: "", Quantity: 1}, "user-1", false); !errors.Is(err, ErrVariationIDRequired) {
		t.Fatalf("expected ErrVariationIDRequired, got %v", err)
	}
	if _, err := svc.AddItem(AddToCartInput{VariationID: "v", Quantity: 0}, "user-1", false); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestAddItemVariationNotFound(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	_, err := svc.AddItem(AddToCartInput{VariationID: uuid.NewString(), Quantity: 1}, "user-1", false)
	if !errors.Is(err, ErrVariationNotFound) {
		t.Fatalf("expected ErrVariationNotFound, got %v", err)
	}
}

func TestUpdateItemIncreaseReservesDelta(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 2}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	cart, err = svc.UpdateItem(UpdateCartItemInput{ItemID: cart.Items[0].ID, Quantity: 5})
	if err != nil {
		t.Fatalf("UpdateItem error: %v", err)
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
	if got := variationStock(t, db, variation.ID); got != 5 {
		t.Fatalf("expected stock 5, got %d", got)
	}
	if cart.TotalAmount.String() != "250.00" {
		t.Fatalf("expected total_amount 250.00, got %s", cart.TotalAmount.String())
	}
}

func TestUpdateItemDecreaseReleasesDelta(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 5}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	cart, err = svc.UpdateItem(UpdateCartItemInput{ItemID: cart.Items[0].ID, Quantity: 2})
	if err != nil {
		t.Fatalf("UpdateItem error: %v", err)
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart.Items[0].Quantity)
	}
	if got := variationStock(t, db, variation.ID); got != 8 {
		t.Fatalf("expected stock 8, got %d", got)
	}
}

func TestUpdateItemDiffExceedingStockFails(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 5)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 3}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	// 剩余 2 件，增量 7 无法满足：条目数量与库存都必须保持原样
	_, err = svc.UpdateItem(UpdateCartItemInput{ItemID: cart.Items[0].ID, Quantity: 10})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := variationStock(t, db, variation.ID); got != 2 {
		t.Fatalf("stock must stay 2, got %d", got)
	}
	var item models.CartItem
	if err := db.Where("id = ?", cart.Items[0].ID).First(&item).Error; err != nil {
		t.Fatalf("load item failed: %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("quantity must stay 3, got %d", item.Quantity)
	}
}

func TestUpdateItemZeroEqualsRemove(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 3}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	cart, err = svc.UpdateItem(UpdateCartItemInput{ItemID: cart.Items[0].ID, Quantity: 0})
	if err != nil {
		t.Fatalf("UpdateItem error: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if cart.TotalItems != 0 || !cart.TotalAmount.Equal(decimal.Zero) {
		t.Fatalf("expected zero totals, got items=%d amount=%s", cart.TotalItems, cart.TotalAmount.String())
	}
	if got := variationStock(t, db, variation.ID); got != 10 {
		t.Fatalf("expected full stock restore, got %d", got)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	_, err := svc.UpdateItem(UpdateCartItemInput{ItemID: uuid.NewString(), Quantity: 1})
	if !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestAddRemoveRoundTripRestoresStock(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 4}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	cart, err = svc.RemoveItem(RemoveFromCartInput{ItemID: cart.Items[0].ID})
	if err != nil {
		t.Fatalf("RemoveItem error: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalItems != 0 {
		t.Fatalf("expected empty cart, got items=%d total=%d", len(cart.Items), cart.TotalItems)
	}
	if got := variationStock(t, db, variation.ID); got != 10 {
		t.Fatalf("expected stock back to 10, got %d", got)
	}
}

func TestClearCartReleasesEveryLine(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	first := seedVariation(t, db, 50, 0, 10)
	second := seedVariation(t, db, 30, 0, 6)

	if _, err := svc.AddItem(AddToCartInput{VariationID: first.ID, Quantity: 4}, "user-1", false); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if _, err := svc.AddItem(AddToCartInput{VariationID: second.ID, Quantity: 2}, "user-1", false); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	cart, err := svc.ClearCart("user-1", false)
	if err != nil {
		t.Fatalf("ClearCart error: %v", err)
	}
	if len(cart.Items) != 0 || cart.TotalItems != 0 {
		t.Fatalf("expected cleared cart, got items=%d total=%d", len(cart.Items), cart.TotalItems)
	}
	if !cart.IsActive() {
		t.Fatalf("cleared cart must stay ACTIVE, got %s", cart.Status)
	}
	if got := variationStock(t, db, first.ID); got != 10 {
		t.Fatalf("expected first stock 10, got %d", got)
	}
	if got := variationStock(t, db, second.ID); got != 6 {
		t.Fatalf("expected second stock 6, got %d", got)
	}
}

func TestClearCartWithoutCart(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	_, err := svc.ClearCart("user-none", false)
	if !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestGetCartReturnsNilWhenAbsent(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	cart, err := svc.GetCart("user-1", false)
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart, got %+v", cart)
	}
}

func TestGuestCartIsSeparateFromUserCart(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-1", VariationID: variation.ID, Quantity: 1}); err != nil {
		t.Fatalf("guest AddItem error: %v", err)
	}
	userCart, err := svc.GetCart("guest-1", false)
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if userCart != nil {
		t.Fatalf("guest cart must not be visible via user lookup")
	}
	guestCart, err := svc.GetCart("guest-1", true)
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if guestCart == nil || guestCart.TotalItems != 1 {
		t.Fatalf("expected guest cart with 1 item, got %+v", guestCart)
	}
}

func TestMergeGuestCartSumsQuantitiesAndCompletesGuestCart(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	shared := seedVariation(t, db, 50, 0, 20)
	guestOnly := seedVariation(t, db, 30, 0, 10)

	if _, err := svc.AddItem(AddToCartInput{VariationID: shared.ID, Quantity: 2}, "user-1", false); err != nil {
		t.Fatalf("user AddItem error: %v", err)
	}
	if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-1", VariationID: shared.ID, Quantity: 3}); err != nil {
		t.Fatalf("guest AddItem error: %v", err)
	}
	if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-1", VariationID: guestOnly.ID, Quantity: 1}); err != nil {
		t.Fatalf("guest AddItem error: %v", err)
	}

	sharedStockBefore := variationStock(t, db, shared.ID)

	cart, err := svc.MergeGuestCart(MergeGuestCartInput{GuestID: "guest-1", UserID: "user-1"})
	if err != nil {
		t.Fatalf("MergeGuestCart error: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 merged lines, got %d", len(cart.Items))
	}
	quantities := map[string]int{}
	for _, item := range cart.Items {
		quantities[item.ProductVariationID] = item.Quantity
	}
	if quantities[shared.ID] != 5 {
		t.Fatalf("expected merged quantity 5, got %d", quantities[shared.ID])
	}
	if quantities[guestOnly.ID] != 1 {
		t.Fatalf("expected guest-only quantity 1, got %d", quantities[guestOnly.ID])
	}

	// 合并只转移预占，不二次扣库存
	if got := variationStock(t, db, shared.ID); got != sharedStockBefore {
		t.Fatalf("merge must not touch stock: before=%d after=%d", sharedStockBefore, got)
	}

	// 游客车留档为 COMPLETED，激活查询不再可见
	guestCart, err := svc.GetCart("guest-1", true)
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if guestCart != nil {
		t.Fatalf("guest cart must no longer be active")
	}
	var archived models.Cart
	if err := db.Where("guest_id = ?", "guest-1").First(&archived).Error; err != nil {
		t.Fatalf("load archived guest cart failed: %v", err)
	}
	if archived.Status != constants.CartStatusCompleted {
		t.Fatalf("expected COMPLETED guest cart, got %s", archived.Status)
	}
}

func TestMergeGuestCartSkipsMissingVariation(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	kept := seedVariation(t, db, 50, 0, 10)
	removed := seedVariation(t, db, 30, 0, 10)

	if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-1", VariationID: kept.ID, Quantity: 1}); err != nil {
		t.Fatalf("guest AddItem error: %v", err)
	}
	if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-1", VariationID: removed.ID, Quantity: 2}); err != nil {
		t.Fatalf("guest AddItem error: %v", err)
	}
	if err := db.Where("id = ?", removed.ID).Delete(&models.ProductVariation{}).Error; err != nil {
		t.Fatalf("delete variation failed: %v", err)
	}

	cart, err := svc.MergeGuestCart(MergeGuestCartInput{GuestID: "guest-1", UserID: "user-1"})
	if err != nil {
		t.Fatalf("MergeGuestCart error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 surviving line, got %d", len(cart.Items))
	}
	if cart.Items[0].ProductVariationID != kept.ID {
		t.Fatalf("unexpected surviving variation: %s", cart.Items[0].ProductVariationID)
	}
}

func TestMergeGuestCartWithoutGuestCart(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	_, err := svc.MergeGuestCart(MergeGuestCartInput{GuestID: "guest-none", UserID: "user-1"})
	if !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

// 合并满足交换律：两个游客车以任意顺序并入，条目数量集一致。
func TestMergeGuestCartOrderIndependent(t *testing.T) {
	merge := func(t *testing.T, order []string) map[string]int {
		svc, db := setupCartServiceTest(t)
		first := seedVariation(t, db, 50, 0, 30)
		second := seedVariation(t, db, 30, 0, 30)

		if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-a", VariationID: first.ID, Quantity: 2}); err != nil {
			t.Fatalf("guest-a AddItem error: %v", err)
		}
		if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-a", VariationID: second.ID, Quantity: 1}); err != nil {
			t.Fatalf("guest-a AddItem error: %v", err)
		}
		if _, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: "guest-b", VariationID: first.ID, Quantity: 3}); err != nil {
			t.Fatalf("guest-b AddItem error: %v", err)
		}

		var cart *models.Cart
		var err error
		for _, guestID := range order {
			cart, err = svc.MergeGuestCart(MergeGuestCartInput{GuestID: guestID, UserID: "user-1"})
			if err != nil {
				t.Fatalf("merge %s error: %v", guestID, err)
			}
		}
		quantities := map[string]int{}
		for _, item := range cart.Items {
			// 规格按种类归一，跨 DB 比较使用序号键
			key := "first"
			if item.ProductVariationID == second.ID {
				key = "second"
			}
			quantities[key] = item.Quantity
		}
		return quantities
	}

	ab := merge(t, []string{"guest-a", "guest-b"})
	ba := merge(t, []string{"guest-b", "guest-a"})
	if ab["first"] != ba["first"] || ab["second"] != ba["second"] {
		t.Fatalf("merge order changed result: ab=%v ba=%v", ab, ba)
	}
	if ab["first"] != 5 || ab["second"] != 1 {
		t.Fatalf("unexpected merged quantities: %v", ab)
	}
}

func TestRecalcTotalsIdempotent(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 3}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	first, err := svc.recalcTotals(db, cart.ID)
	if err != nil {
		t.Fatalf("first recalc error: %v", err)
	}
	second, err := svc.recalcTotals(db, cart.ID)
	if err != nil {
		t.Fatalf("second recalc error: %v", err)
	}
	if first.TotalItems != second.TotalItems || !first.TotalAmount.Equal(second.TotalAmount.Decimal) {
		t.Fatalf("recalc not idempotent: first=%d/%s second=%d/%s",
			first.TotalItems, first.TotalAmount.String(), second.TotalItems, second.TotalAmount.String())
	}
}

func TestRecalcRefreshesPriceSnapshot(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 100, 0, 10)

	cart, err := svc.AddItem(AddToCartInput{VariationID: variation.ID, Quantity: 2}, "user-1", false)
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	if cart.TotalAmount.String() != "200.00" {
		t.Fatalf("expected 200.00, got %s", cart.TotalAmount.String())
	}

	// 降价后任何写操作触发的重算都会刷新快照
	if err := db.Model(&models.ProductVariation{}).
		Where("id = ?", variation.ID).
		Update("sale_price", models.NewMoneyFromInt(60)).Error; err != nil {
		t.Fatalf("update sale price failed: %v", err)
	}
	cart, err = svc.UpdateItem(UpdateCartItemInput{ItemID: cart.Items[0].ID, Quantity: 2})
	if err != nil {
		t.Fatalf("UpdateItem error: %v", err)
	}
	if cart.Items[0].Price.String() != "60.00" {
		t.Fatalf("expected refreshed snapshot 60.00, got %s", cart.Items[0].Price.String())
	}
	if cart.TotalAmount.String() != "120.00" {
		t.Fatalf("expected total 120.00, got %s", cart.TotalAmount.String())
	}
}

func TestConcurrentAddNeverOversells(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	variation := seedVariation(t, db, 50, 0, 5)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		guestID := fmt.Sprintf("guest-%d", i)
		go func() {
			defer wg.Done()
			_, err := svc.AddItemToGuestCart(GuestCartInput{GuestID: guestID, VariationID: variation.ID, Quantity: 1})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}
	if successes > 5 {
		t.Fatalf("oversold: %d successes for stock 5", successes)
	}

	finalStock := variationStock(t, db, variation.ID)
	if finalStock < 0 {
		t.Fatalf("stock went negative: %d", finalStock)
	}
	if finalStock != 5-successes {
		t.Fatalf("stock accounting broken: successes=%d final=%d", successes, finalStock)
	}

	// 清空所有成功的购物车后库存必须完整归还
	for i := 0; i < attempts; i++ {
		guestID := fmt.Sprintf("guest-%d", i)
		if _, err := svc.ClearCart(guestID, true); err != nil && !errors.Is(err, ErrCartNotFound) {
			t.Fatalf("ClearCart %s error: %v", guestID, err)
		}
	}
	if got := variationStock(t, db, variation.ID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}
}

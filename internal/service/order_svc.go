package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"chumslister/internal/model"
	"chumslister/internal/repository"
)

// 归一化后的订单状态词表
const (
	OrderStatusCancelled      = "Cancelled"
	OrderStatusPaymentPending = "Payment Pending"
	OrderStatusShipped        = "Shipped"
	OrderStatusReadyToShip    = "Ready to Ship"
	OrderStatusProcessing     = "Processing"
)

// NormalizeOrderStatus 把各平台的三个原始状态字段映射到统一词表
// 判定顺序即优先级，高优先级命中后不再看低优先级：
//  1. 取消 (订单状态含 cancel/inactive)
//  2. 待付款 (付款状态含 pending/incomplete/fail)
//  3. 已发货 (物流状态含 ship 且非 not shipped)
//  4. 待发货 (已付款未发货)
//  5. 待发货 (订单状态已完成但没有物流信息)
//  6. 处理中 (其余一切)
func NormalizeOrderStatus(orderStatus, paymentStatus, shippingStatus string) string {
	order := strings.ToLower(orderStatus)
	payment := strings.ToLower(paymentStatus)
	shipping := strings.ToLower(shippingStatus)

	if strings.Contains(order, "cancel") || strings.Contains(order, "inactive") {
		return OrderStatusCancelled
	}
	// eBay 付款成功的标准值 NoPaymentFailure 里带着 "fail"，先剔除再判付款失败
	paymentFailed := strings.Contains(payment, "fail") && !strings.Contains(payment, "nopaymentfailure")
	if strings.Contains(payment, "pending") || strings.Contains(payment, "incomplete") || paymentFailed {
		return OrderStatusPaymentPending
	}
	if strings.Contains(shipping, "ship") && !strings.Contains(shipping, "not") {
		return OrderStatusShipped
	}
	if strings.Contains(payment, "paid") || strings.Contains(payment, "complete") || strings.Contains(payment, "nochange") {
		return OrderStatusReadyToShip
	}
	if strings.Contains(order, "complete") && !strings.Contains(order, "incomplete") && shipping == "" {
		return OrderStatusReadyToShip
	}
	return OrderStatusProcessing
}

// ==================== 订单聚合服务 ====================

// OrderService 跨平台订单聚合
// 逐平台拉取互相隔离：单个平台失败只记日志，不影响其它平台的结果
type OrderService struct {
	factory   *MarketplaceFactory
	sales     repository.SaleRepository
	inventory *InventoryService
}

// NewOrderService 创建订单服务
func NewOrderService(factory *MarketplaceFactory, sales repository.SaleRepository, inventory *InventoryService) *OrderService {
	return &OrderService{factory: factory, sales: sales, inventory: inventory}
}

// GetRecentSales 聚合全部已授权平台的近期订单，按售出时间倒序
func (s *OrderService) GetRecentSales(ctx context.Context, userID int64, from, to time.Time) []OrderSummary {
	var all []OrderSummary

	for _, svc := range s.factory.AuthenticatedServices(ctx, userID) {
		orders, err := svc.GetRecentSales(ctx, userID, from, to)
		if err != nil {
			log.Printf("[Order] 平台 %s 拉取订单失败: %v", svc.Platform(), err)
			continue
		}
		all = append(all, orders...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].SoldAt.After(all[j].SoldAt)
	})
	return all
}

// GetOrderDetails 取单个平台的订单详情
func (s *OrderService) GetOrderDetails(ctx context.Context, userID int64, platform Platform, orderID string) (*OrderDetails, error) {
	svc, err := s.factory.Get(platform)
	if err != nil {
		return nil, err
	}
	return svc.GetOrderDetails(ctx, userID, orderID)
}

// SyncSales 把近期订单落库 (按平台+订单号幂等 upsert)，供报表与库存侧使用
// 首次见到的已付款订单同时记入本地库存的售出流水 (只追加)；
// 轮询会反复看到同一批订单，靠"首见"判定保证库存不被重复扣减
func (s *OrderService) SyncSales(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	orders := s.GetRecentSales(ctx, userID, from, to)

	saved := 0
	for i := range orders {
		o := &orders[i]

		_, lookupErr := s.sales.GetByOrder(ctx, string(o.Platform), o.OrderID)
		firstSeen := lookupErr != nil
		record := &model.SaleRecord{
			UserID:     userID,
			Platform:   string(o.Platform),
			OrderID:    o.OrderID,
			SKU:        o.SKU,
			Title:      o.Title,
			Quantity:   o.Quantity,
			TotalCents: o.TotalCents,
			Currency:   o.Currency,
			Buyer:      o.Buyer,
			Status:     o.Status,
			SoldAt:     o.SoldAt,
		}
		if err := s.sales.UpsertByOrder(ctx, record); err != nil {
			log.Printf("[Order] 落库订单 %s/%s 失败: %v", o.Platform, o.OrderID, err)
			continue
		}
		saved++

		if firstSeen && o.SKU != "" && saleCountsAgainstStock(o.Status) {
			if err := s.inventory.RecordSale(ctx, userID, o.SKU, o.Quantity, o.SoldAt); err != nil {
				log.Printf("[Order] 记录 SKU %s 售出失败: %v", o.SKU, err)
			}
		}
	}
	return saved, nil
}

// saleCountsAgainstStock 取消与待付款的订单不动库存
func saleCountsAgainstStock(status string) bool {
	return status != OrderStatusCancelled && status != OrderStatusPaymentPending
}

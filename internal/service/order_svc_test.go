package service

import "testing"

// ==================== 状态归一化 ====================

func TestNormalizeOrderStatus(t *testing.T) {
	tests := []struct {
		name     string
		order    string
		payment  string
		shipping string
		want     string
	}{
		// 取消优先于一切
		{"已取消", "Cancelled", "Paid", "Shipped", OrderStatusCancelled},
		{"取消态大小写无关", "CANCEL_PENDING", "", "", OrderStatusCancelled},
		{"Inactive 视为取消", "Inactive", "Complete", "", OrderStatusCancelled},

		// 付款问题其次
		{"付款待定", "Active", "Pending", "Shipped", OrderStatusPaymentPending},
		{"付款未完成", "Completed", "Incomplete", "", OrderStatusPaymentPending},
		{"付款失败", "Completed", "Failed", "", OrderStatusPaymentPending},

		// 已发货
		{"已发货", "Completed", "Paid", "Shipped", OrderStatusShipped},
		{"NotShipped 不算发货", "Completed", "Paid", "NotShipped", OrderStatusReadyToShip},

		// 已付款待发货
		{"已付款", "Completed", "Paid", "", OrderStatusReadyToShip},
		{"付款完成", "Active", "Complete", "", OrderStatusReadyToShip},
		{"NoChange 视为已付款", "Completed", "NoChange", "", OrderStatusReadyToShip},

		// 订单完成但无物流信息，同样待发货
		{"订单完成无付款信息", "Completed", "", "", OrderStatusReadyToShip},
		{"NoPaymentFailure 不是付款失败", "Completed", "NoPaymentFailure", "", OrderStatusReadyToShip},

		// 兜底
		{"全空", "", "", "", OrderStatusProcessing},
		{"未知词表", "Weird", "Unknown", "Maybe", OrderStatusProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeOrderStatus(tt.order, tt.payment, tt.shipping)
			if got != tt.want {
				t.Errorf("NormalizeOrderStatus(%q, %q, %q) = %q, want %q",
					tt.order, tt.payment, tt.shipping, got, tt.want)
			}
		})
	}
}

func TestSaleCountsAgainstStock(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{OrderStatusCancelled, false},
		{OrderStatusPaymentPending, false},
		{OrderStatusShipped, true},
		{OrderStatusReadyToShip, true},
		{OrderStatusProcessing, true},
	}

	for _, tt := range tests {
		if got := saleCountsAgainstStock(tt.status); got != tt.want {
			t.Errorf("saleCountsAgainstStock(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

package coupon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AppliedTotal tracks coupons applied, by coupon ID.
	AppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molbhav_coupon_applied_total",
			Help: "Total number of invisible coupons applied, by coupon id",
		},
		[]string{"coupon_id"},
	)
)

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	enqueue(commerceRequestsTotal)
}

var commerceRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "commerce_requests_total",
		Help: "Commerce backend requests by operation and status class.",
	},
	[]string{"op", "status"},
)

// ObserveCommerceRequest records one backend call. Status 0 means the
// request never got a response (transport failure).
func ObserveCommerceRequest(op string, status int) {
	class := "error"
	if status >= 200 && status < 300 {
		class = "ok"
	} else if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	commerceRequestsTotal.WithLabelValues(op, class).Inc()
}

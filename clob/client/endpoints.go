package client

// API 端点常量
const (
	// 订单提交与查询共用一个路径，语义由方法区分
	EndpointSubmitOrder = "/v2/order"
	EndpointQueryOrders = "/v2/order"

	EndpointQueryTrades = "/v2/trade"
	EndpointCancelOrder = "/v1/order/cancel/order"

	// 话题元数据，后接 topic id
	EndpointTopic = "/v2/topic/"

	// 订单簿深度
	EndpointMarketDepth = "/v2/order/market/depth"
)

package consts

const (
	// TraceKey 上下文中保存 TraceID 的键
	TraceKey = "traceId"
	// TraceHeaderName 跨服务传递父追踪上下文的请求头
	TraceHeaderName = "X-Trace-Context"
	// OwnerKey fiber Locals 中保存归属账号ID的键
	OwnerKey = "owner_id"
)

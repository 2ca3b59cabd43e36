package leave

// The proxy table predates the self table and stores its statuses in a
// lowercase vocabulary. These helpers are the only place in the codebase
// that knows both spellings; everything above the store adapter uses the
// canonical uppercase constants.

const (
	proxyStatusPending  = "pending"
	proxyStatusApproved = "approved"
	proxyStatusRejected = "rejected"
)

func toStoreStatus(origin Origin, status string) string {
	if origin != OriginProxy {
		return status
	}
	switch status {
	case StatusPending:
		return proxyStatusPending
	case StatusApproved:
		return proxyStatusApproved
	case StatusRejected:
		return proxyStatusRejected
	default:
		return status
	}
}

func fromStoreStatus(origin Origin, status string) string {
	if origin != OriginProxy {
		return status
	}
	switch status {
	case proxyStatusPending:
		return StatusPending
	case proxyStatusApproved:
		return StatusApproved
	case proxyStatusRejected:
		return StatusRejected
	default:
		return status
	}
}

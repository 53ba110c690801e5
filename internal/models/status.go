package models

// StatusDisplayInfo contains display information for a lead status
type StatusDisplayInfo struct {
	DisplayName string
	Color       string // fatih/color attribute name used by the CLI
}

// GetStatusDisplayInfo returns display information for a given status
func GetStatusDisplayInfo(status string) StatusDisplayInfo {
	statusMap := map[string]StatusDisplayInfo{
		LeadStatusPending: {
			DisplayName: "Pending",
			Color:       "yellow",
		},
	}

	if info, ok := statusMap[status]; ok {
		return info
	}

	// Default for unknown status
	return StatusDisplayInfo{
		DisplayName: status,
		Color:       "white",
	}
}

package models

// AlertPriority values of echart_people_sensor_monitoring.alert_priority.
type AlertPriority string

const (
	AlertPriorityHighlyCritical AlertPriority = "HIGHLY_CRITICAL"
	AlertPriorityCritical       AlertPriority = "CRITICAL"
	AlertPriorityAlert          AlertPriority = "ALERT"
)

func (p AlertPriority) Valid() bool {
	switch p {
	case AlertPriorityHighlyCritical, AlertPriorityCritical, AlertPriorityAlert:
		return true
	}
	return false
}

// AlertFilter selects people by active alert flags (ORed), department, zone
// and priority (ANDed).
type AlertFilter struct {
	Alarm1     bool          `json:"alarm1,omitempty"`
	Alarm2     bool          `json:"alarm2,omitempty"`
	Button1    bool          `json:"button1,omitempty"`
	Button2    bool          `json:"button2,omitempty"`
	Mandown    bool          `json:"mandown,omitempty"`
	Department string        `json:"department,omitempty"`
	Zone       string        `json:"zone,omitempty"`
	Priority   AlertPriority `json:"priority,omitempty"`
}

package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ContentType describes what media a broadcast carries
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
	ContentTypeBoth  ContentType = "both"
)

// ReactionType is an employee's reaction to content
type ReactionType string

const (
	ReactionLike   ReactionType = "like"
	ReactionUnlike ReactionType = "unlike"
	ReactionHeart  ReactionType = "heart"
	ReactionCry    ReactionType = "cry"
)

// ValidReaction reports whether r is one of the supported reactions
func ValidReaction(r ReactionType) bool {
	switch r {
	case ReactionLike, ReactionUnlike, ReactionHeart, ReactionCry:
		return true
	}
	return false
}

// DelayChoice is a recipient's selection of how soon to view a message
type DelayChoice string

const (
	DelayImmediate DelayChoice = "Play Immediate"
	DelayWithin15m DelayChoice = "Play within 15 minutes"
	DelayWithin30m DelayChoice = "Play within 30 minutes"
	DelayWithin1h  DelayChoice = "Play within 1 hour"
	DelayWithin3h  DelayChoice = "Play within 3 hours"
)

// DelayOffset returns the relative offset for a delay choice. Immediate and
// unknown choices return (0, false).
func DelayOffset(c DelayChoice) (time.Duration, bool) {
	switch c {
	case DelayWithin15m:
		return 15 * time.Minute, true
	case DelayWithin30m:
		return 30 * time.Minute, true
	case DelayWithin1h:
		return time.Hour, true
	case DelayWithin3h:
		return 3 * time.Hour, true
	}
	return 0, false
}

// ValidDelayChoice reports whether c is one of the supported delay choices
func ValidDelayChoice(c DelayChoice) bool {
	if c == DelayImmediate {
		return true
	}
	_, ok := DelayOffset(c)
	return ok
}

// UpdateState is a device's app-update status
type UpdateState string

const (
	UpdatePending UpdateState = "pending"
	UpdateSuccess UpdateState = "success"
	UpdateFailed  UpdateState = "failed"
)

// ValidUpdateState reports whether s is one of the supported update states
func ValidUpdateState(s UpdateState) bool {
	switch s {
	case UpdatePending, UpdateSuccess, UpdateFailed:
		return true
	}
	return false
}

// StringList is a string slice stored as a JSON column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for StringList", value)
}

// Contains reports whether the list contains s
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Content represents one scheduled broadcast message
type Content struct {
	ID            string      `gorm:"primaryKey" json:"id"`
	Type          ContentType `gorm:"not null" json:"type"`
	Title         string      `gorm:"size:100;not null" json:"title"`
	Text          string      `gorm:"type:text" json:"text"`
	ImageURL      string      `json:"image_url,omitempty"`
	VideoURL      string      `json:"url,omitempty"`
	ScheduledTime time.Time   `gorm:"not null;index" json:"scheduled_time"`
	Recipients    StringList  `gorm:"type:jsonb;not null" json:"employees"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"-"`
}

// TableName returns the table name for Content
func (Content) TableName() string {
	return "scheduled_content"
}

// Notification is a best-effort advance-notice record; it is a delivery
// hint only and never authoritative for content visibility
type Notification struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	ContentID  string     `gorm:"not null;index" json:"content_id"`
	Recipients StringList `gorm:"type:jsonb;not null" json:"employees"`
	Time       time.Time  `gorm:"not null;index" json:"time"`
	Text       string     `gorm:"-" json:"text,omitempty"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// MessagePreference stores a recipient's delay choice for one content item
type MessagePreference struct {
	ID          uint        `gorm:"primaryKey" json:"-"`
	EmployeeID  string      `gorm:"not null;index:idx_pref_employee_content,unique" json:"employee_id"`
	ContentID   string      `gorm:"not null;index:idx_pref_employee_content,unique" json:"content_id"`
	DelayChoice DelayChoice `gorm:"not null" json:"delay_choice"`
	DisplayTime time.Time   `gorm:"not null" json:"display_time"`
}

// TableName returns the table name for MessagePreference
func (MessagePreference) TableName() string {
	return "message_preferences"
}

// View records the maximum observed view duration per (content, employee)
type View struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	ContentID      string    `gorm:"not null;index:idx_view_content_employee,unique" json:"content_id"`
	EmployeeID     string    `gorm:"not null;index:idx_view_content_employee,unique;index:idx_view_employee" json:"employee_id"`
	ViewedDuration float64   `gorm:"not null" json:"viewed_duration"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
}

// TableName returns the table name for View
func (View) TableName() string {
	return "views"
}

// Reaction stores the last reaction per (content, employee)
type Reaction struct {
	ID         uint         `gorm:"primaryKey" json:"-"`
	ContentID  string       `gorm:"not null;index:idx_reaction_content_employee,unique" json:"content_id"`
	EmployeeID string       `gorm:"not null;index:idx_reaction_content_employee,unique" json:"employee_id"`
	Reaction   ReactionType `gorm:"not null" json:"reaction"`
	Timestamp  time.Time    `gorm:"not null" json:"timestamp"`
}

// TableName returns the table name for Reaction
func (Reaction) TableName() string {
	return "reactions"
}

// Feedback is append-only free-text feedback; duplicates are retained
type Feedback struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	ContentID  string    `gorm:"not null;index" json:"content_id"`
	EmployeeID string    `gorm:"not null;index" json:"employee_id"`
	Text       string    `gorm:"column:feedback_text;type:text;not null" json:"feedback"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
}

// TableName returns the table name for Feedback
func (Feedback) TableName() string {
	return "feedback"
}

// DeviceStatus is the per-employee heartbeat record
type DeviceStatus struct {
	EmployeeID   string    `gorm:"primaryKey" json:"employee_id"`
	Status       string    `gorm:"not null;default:online" json:"status"`
	ActiveStatus string    `json:"active_status,omitempty"`
	AppRunning   bool      `json:"app_running"`
	Hostname     string    `gorm:"not null;default:unknown-host" json:"hostname"`
	Email        string    `json:"email,omitempty"`
	IP           string    `json:"ip,omitempty"`
	DeviceType   string    `json:"device_type,omitempty"`
	LastSeen     time.Time `gorm:"not null" json:"last_seen"`
}

// TableName returns the table name for DeviceStatus
func (DeviceStatus) TableName() string {
	return "employee_devices"
}

// DeviceUpdateStatus tracks app-update progress per (employee, device)
type DeviceUpdateStatus struct {
	ID              uint        `gorm:"primaryKey" json:"-"`
	EmployeeID      string      `gorm:"not null;index:idx_update_employee_device,unique" json:"employee_id"`
	DeviceID        string      `gorm:"not null;index:idx_update_employee_device,unique" json:"device_id"`
	Version         string      `json:"version"`
	Status          UpdateState `gorm:"not null;default:pending" json:"status"`
	ErrorMessage    string      `json:"error_message,omitempty"`
	LastAttemptedAt time.Time   `gorm:"not null" json:"last_attempted_at"`
}

// TableName returns the table name for DeviceUpdateStatus
func (DeviceUpdateStatus) TableName() string {
	return "device_update_status"
}

// Feed is what the polling agent receives for one employee
type Feed struct {
	Content       []Content      `json:"content"`
	Notifications []Notification `json:"notifications"`
}

// ScheduleRequest is the input to the content scheduler
type ScheduleRequest struct {
	Title         string
	Text          string
	ImageURL      string
	VideoURL      string
	Recipients    []string
	SendNow       bool
	ScheduledTime string // local wall clock, "2006-01-02T15:04"
}

// StatusReport is a heartbeat plus optional app-version reconciliation
// reported by an agent
type StatusReport struct {
	EmployeeID     string      `json:"employee_id"`
	DeviceID       string      `json:"device_id,omitempty"`
	Status         string      `json:"status,omitempty"`
	ActiveStatus   string      `json:"active_status,omitempty"`
	AppRunning     bool        `json:"app_running"`
	Hostname       string      `json:"hostname,omitempty"`
	Email          string      `json:"email,omitempty"`
	IP             string      `json:"ip,omitempty"`
	DeviceType     string      `json:"device_type,omitempty"`
	CurrentVersion string      `json:"current_version,omitempty"`
	UpdateStatus   UpdateState `json:"update_status,omitempty"`
	ErrorMessage   string      `json:"error_message,omitempty"`
}

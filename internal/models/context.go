package models

import "time"

// UserContext identifies the person on the other side of a session. The
// orchestration layer fills it from the participant identity, or from a
// generated fallback id when the caller arrives anonymous.
type UserContext struct {
	UserID      string         `json:"user_id"`
	Name        string         `json:"name,omitempty"`
	PhoneNumber string         `json:"phone_number,omitempty"`
	Email       string         `json:"email,omitempty"`
	Language    string         `json:"language"`
	Timezone    string         `json:"timezone"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewUserContext returns a UserContext with the default language and
// timezone applied.
func NewUserContext(userID string) UserContext {
	return UserContext{
		UserID:    userID,
		Language:  "en",
		Timezone:  "UTC",
		CreatedAt: time.Now().UTC(),
	}
}

// OrganizationContext carries organization-specific settings used when
// rendering prompts.
type OrganizationContext struct {
	OrgID          string            `json:"org_id"`
	Name           string            `json:"name"`
	Industry       string            `json:"industry,omitempty"`
	BusinessHours  map[string]any    `json:"business_hours,omitempty"`
	ContactInfo    map[string]string `json:"contact_info,omitempty"`
	CustomSettings map[string]any    `json:"custom_settings,omitempty"`
	Branding       map[string]string `json:"branding,omitempty"`
}

// ConversationContext is the per-session state handed back to the
// orchestration layer when a conversation is created.
type ConversationContext struct {
	ConversationID string         `json:"conversation_id"`
	UserID         string         `json:"user_id"`
	StartTime      time.Time      `json:"start_time"`
	CurrentIntent  string         `json:"current_intent,omitempty"`
	Variables      map[string]any `json:"variables,omitempty"`
	Metadata       map[string]any `json:"metadata"`
}

// AgentContext bundles everything a prompt template can draw on.
type AgentContext struct {
	User         UserContext         `json:"user"`
	Organization OrganizationContext `json:"organization"`
	Conversation ConversationContext `json:"conversation"`
	IsPhoneCall  bool                `json:"is_phone_call"`
	CallMetadata map[string]any      `json:"call_metadata,omitempty"`
}

// ToPromptVariables flattens the context into template variables.
// Conversation variables win on key collisions.
func (a AgentContext) ToPromptVariables() map[string]any {
	userName := a.User.Name
	if userName == "" {
		userName = "there"
	}
	industry := a.Organization.Industry
	if industry == "" {
		industry = "general"
	}

	vars := map[string]any{
		"user_name":    userName,
		"org_name":     a.Organization.Name,
		"org_industry": industry,
		"is_phone":     a.IsPhoneCall,
		"language":     a.User.Language,
		"current_time": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range a.Conversation.Variables {
		vars[k] = v
	}
	return vars
}

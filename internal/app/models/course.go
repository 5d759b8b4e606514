package models

import "time"

// VideoLink is a free-form JSON object attached to a course (title, url, ...).
type VideoLink map[string]interface{}

// Course represents a course taught by a mentor and reviewed by an admin.
type Course struct {
	ID             string         `json:"id" db:"id"`
	Title          string         `json:"title" db:"title"`
	Description    *string        `json:"description" db:"description"`
	MentorID       *string        `json:"mentorId" db:"mentor_id"`
	BatchID        *string        `json:"batchId" db:"batch_id"`
	ZoomID         *string        `json:"zoomId" db:"zoom_id"`
	TeamsID        *string        `json:"teamsId" db:"teams_id"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus" db:"approval_status"`
	VideoURLs      []VideoLink    `json:"videoUrls" db:"video_urls"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// OwnedBy reports whether the course is assigned to the given mentor.
func (c *Course) OwnedBy(mentorID string) bool {
	return c.MentorID != nil && mentorID != "" && *c.MentorID == mentorID
}

// CourseDraft carries the fields accepted when creating a course.
// ApprovalStatus is read from the request only so that it can be ignored.
type CourseDraft struct {
	Title          string
	Description    *string
	MentorID       *string
	BatchID        *string
	ZoomID         *string
	TeamsID        *string
	VideoURLs      []VideoLink
	ApprovalStatus *string
}

// NullableString is one field of a patch.
// Set=false leaves the column untouched; Set=true with Null=true clears it.
type NullableString struct {
	Set   bool
	Null  bool
	Value string
}

// Ptr returns the new column value, nil when the patch clears the field.
func (n NullableString) Ptr() *string {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

// CoursePatch lists the course fields an update touches.
type CoursePatch struct {
	Title       *string
	Description NullableString
	MentorID    NullableString
	BatchID     NullableString
	ZoomID      NullableString
	TeamsID     NullableString
	VideoURLs   *[]VideoLink

	// ApprovalStatus is never applied; its presence makes the update fail.
	ApprovalStatus *string
}

// IsEmpty reports whether the patch changes nothing.
func (p CoursePatch) IsEmpty() bool {
	return p.Title == nil &&
		!p.Description.Set &&
		!p.MentorID.Set &&
		!p.BatchID.Set &&
		!p.ZoomID.Set &&
		!p.TeamsID.Set &&
		p.VideoURLs == nil &&
		p.ApprovalStatus == nil
}

// Apply returns a copy of c with the patch fields written over it.
func (p CoursePatch) Apply(c Course) Course {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description.Set {
		c.Description = p.Description.Ptr()
	}
	if p.MentorID.Set {
		c.MentorID = p.MentorID.Ptr()
	}
	if p.BatchID.Set {
		c.BatchID = p.BatchID.Ptr()
	}
	if p.ZoomID.Set {
		c.ZoomID = p.ZoomID.Ptr()
	}
	if p.TeamsID.Set {
		c.TeamsID = p.TeamsID.Ptr()
	}
	if p.VideoURLs != nil {
		c.VideoURLs = *p.VideoURLs
	}
	return c
}

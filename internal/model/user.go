package model

import (
	"net/url"
	"regexp"
	"unicode/utf8"
)

// User 代表 users 集合中的一条用户档案。
// 档案与身份校验是分离的：token 只证明 uid，档案数据全部在文档存储里。
type User struct {
	UID         string                 `json:"uid"`
	Email       string                 `json:"email,omitempty"`
	DisplayName string                 `json:"displayName"`
	PhotoURL    string                 `json:"photoURL,omitempty"`
	PhoneNumber string                 `json:"phoneNumber,omitempty"`
	Bio         string                 `json:"bio,omitempty"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
	CreatedAt   string                 `json:"createdAt,omitempty"`
	UpdatedAt   string                 `json:"updatedAt,omitempty"`
}

// DirectoryEntry 是用户目录列表里的精简条目。
type DirectoryEntry struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Bio         string `json:"bio"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{5,19}$`)

// ProfileUpdate 承载 PUT /user/:userId 允许更新的字段。
// 指针区分“未提交”与“提交了空值”。
type ProfileUpdate struct {
	DisplayName *string                `json:"displayName"`
	PhotoURL    *string                `json:"photoURL"`
	PhoneNumber *string                `json:"phoneNumber"`
	Bio         *string                `json:"bio"`
	Preferences map[string]interface{} `json:"preferences"`
}

// Validate 校验提交的档案字段，返回字段到错误描述的映射，合法时为空表。
func (p *ProfileUpdate) Validate() map[string]string {
	errs := make(map[string]string)

	if p.DisplayName != nil {
		if n := utf8.RuneCountInString(*p.DisplayName); n < 2 || n > 50 {
			errs["displayName"] = "Display name must be between 2 and 50 characters"
		}
	}
	if p.PhotoURL != nil && *p.PhotoURL != "" {
		if u, err := url.ParseRequestURI(*p.PhotoURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs["photoURL"] = "Photo URL must be a valid URL"
		}
	}
	if p.PhoneNumber != nil && *p.PhoneNumber != "" && !phonePattern.MatchString(*p.PhoneNumber) {
		errs["phoneNumber"] = "Phone number must be valid"
	}
	if p.Bio != nil && utf8.RuneCountInString(*p.Bio) > 500 {
		errs["bio"] = "Bio cannot exceed 500 characters"
	}
	return errs
}

// Fields 返回实际提交的允许字段，作为合并写入文档存储的增量。
func (p *ProfileUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.DisplayName != nil {
		fields["displayName"] = *p.DisplayName
	}
	if p.PhotoURL != nil {
		fields["photoURL"] = *p.PhotoURL
	}
	if p.PhoneNumber != nil {
		fields["phoneNumber"] = *p.PhoneNumber
	}
	if p.Bio != nil {
		fields["bio"] = *p.Bio
	}
	if p.Preferences != nil {
		fields["preferences"] = p.Preferences
	}
	return fields
}

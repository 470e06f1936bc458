package model

// User 系统用户
// 原则上每个用户拥有独立的库存与设置视图，所有业务查询都带 user_id 隔离
type User struct {
	BaseModel
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	DisplayName  string `gorm:"size:128" json:"display_name"`
	Role         string `gorm:"size:20;default:user" json:"role"` // user, admin
	Status       int    `gorm:"default:1" json:"status"`          // 1:启用 0:禁用
}

func (User) TableName() string {
	return "users"
}

package model

import "time"

// AuditModel 审计时间字段
// 时间戳由业务层显式写入，关闭 gorm 的自动填充
type AuditModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// FlagDeleteModel 以 delete_flg 标记逻辑删除的审计模型
type FlagDeleteModel struct {
	DeleteFlg bool `gorm:"column:delete_flg;not null;default:false" json:"delete_flg"`
	AuditModel
}

package database

import (
	"fmt"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	Logger "github.com/dongliang3571/kanic-server/pkg/logger"

	"gorm.io/gorm"
)

// Migration modes
const (
	MigrationAuto = "auto"
	MigrationDrop = "drop"
)

// Migrate 根据迁移模式建表
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case MigrationDrop:
		Logger.Warning("在drop模式下运行，将删除并重建所有表")
		if err := dropTables(db); err != nil {
			return err
		}
	case MigrationAuto, "":
	default:
		return fmt.Errorf("unknown migration mode %q", mode)
	}

	// AutoMigrate 只会添加新列和新表，不会删除或修改列
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	Logger.Info("数据库迁移完成")
	return nil
}

// dropTables 按依赖的逆序删除所有表
func dropTables(db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

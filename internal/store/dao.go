package store

import (
	"fmt"
	"os"

	"github.com/packagewjx/loadtest-analyzer/internal/classify"
	"github.com/packagewjx/loadtest-analyzer/internal/logger"
	"github.com/packagewjx/loadtest-analyzer/internal/table"
	"github.com/packagewjx/loadtest-analyzer/pkg/core"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type UpdateDao interface {
	// 保存表格中所有负载等级，已存在的同标签同线程数记录将被更新
	SaveRunTable(label string, t *table.RunTable, th classify.Thresholds) error
	// 永久删除标签下的所有记录
	RemoveLabel(label string) error
}

type QueryDao interface {
	QueryLoadLevels(label string) ([]*core.LoadLevel, error)
	QueryBottlenecks(label string) ([]*BottleneckDO, error)
	QueryLabels() ([]string, error)
}

type Dao interface {
	DB() *gorm.DB
	UpdateDao
	QueryDao
}

type Config struct {
	Host     string
	User     string
	Password string
	Database string
}

// ResolveHost host为空时读取环境变量MYSQL_SERVICE_HOST与MYSQL_SERVICE_PORT
func ResolveHost(host string) string {
	if host != "" {
		return host
	}
	return fmt.Sprintf("%s:%s", os.Getenv("MYSQL_SERVICE_HOST"), os.Getenv("MYSQL_SERVICE_PORT"))
}

func (c *Config) dsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, ResolveHost(c.Host), c.Database)
}

type daoImpl struct {
	db *gorm.DB
}

var _ Dao = &daoImpl{}

// gormConfig SQL日志输出到zap，失败与慢查询分别为Error与Warn级别
func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.NewGormLogger()}
}

func NewDao(config *Config) (Dao, error) {
	db, err := gorm.Open(mysql.Open(config.dsn()), gormConfig())
	if err != nil {
		return nil, errors.Wrap(err, "连接数据库错误")
	}
	return NewDaoWithDB(db)
}

// NewDaoWithDB 使用已打开的连接，并创建表格
func NewDaoWithDB(db *gorm.DB) (Dao, error) {
	err := db.AutoMigrate(&LoadLevelDO{}, &BottleneckDO{})
	if err != nil {
		return nil, errors.Wrap(err, "创建表格时出现异常")
	}
	return &daoImpl{db: db}, nil
}

func (d *daoImpl) SaveRunTable(label string, t *table.RunTable, th classify.Thresholds) error {
	if label == "" {
		return fmt.Errorf("标签不能为空")
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range t.Rows {
			do := toLoadLevelDO(label, row)

			old := &LoadLevelDO{}
			err := tx.Where(&LoadLevelDO{Label: label, Threads: row.Threads}).First(old).Error
			if err == nil {
				do.ID = old.ID
				do.CreatedAt = old.CreatedAt
			} else if err != gorm.ErrRecordNotFound {
				return errors.Wrap(err, fmt.Sprintf("查询标签为%s，线程数为%d的记录出错", label, row.Threads))
			}

			if err = tx.Save(do).Error; err != nil {
				return errors.Wrap(err, fmt.Sprintf("保存标签为%s，线程数为%d的记录出错", label, row.Threads))
			}

			err = tx.Unscoped().Where("label = ? AND threads = ?", label, row.Threads).Delete(&BottleneckDO{}).Error
			if err != nil {
				return errors.Wrap(err, "删除旧的瓶颈记录出错")
			}
			for _, c := range classify.Classify(row.Usage(), th).Conditions {
				b := &BottleneckDO{Label: label, Threads: row.Threads, Condition: string(c.Kind), Value: c.Value}
				if err = tx.Create(b).Error; err != nil {
					return errors.Wrap(err, "保存瓶颈记录出错")
				}
			}
		}

		logger.Info("压测结果已保存", zap.String("label", label), zap.Int("levels", len(t.Rows)))
		return nil
	})
}

func (d *daoImpl) RemoveLabel(label string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("label = ?", label).Delete(&BottleneckDO{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("label = ?", label).Delete(&LoadLevelDO{}).Error
	})
}

func (d *daoImpl) QueryLoadLevels(label string) ([]*core.LoadLevel, error) {
	doArray := []*LoadLevelDO{}
	err := d.db.Order("threads asc").Find(&doArray, &LoadLevelDO{Label: label}).Error
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("查询标签为%s的记录出错", label))
	}

	result := make([]*core.LoadLevel, len(doArray))
	for i, do := range doArray {
		result[i] = do.toLoadLevel()
	}
	return result, nil
}

func (d *daoImpl) QueryBottlenecks(label string) ([]*BottleneckDO, error) {
	doArray := []*BottleneckDO{}
	err := d.db.Order("threads asc, id asc").Find(&doArray, &BottleneckDO{Label: label}).Error
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("查询标签为%s的瓶颈记录出错", label))
	}
	return doArray, nil
}

func (d *daoImpl) QueryLabels() ([]string, error) {
	labels := make([]string, 0)
	err := d.db.Model(&LoadLevelDO{}).Distinct("label").Order("label asc").Pluck("label", &labels).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询所有标签出错")
	}
	return labels, nil
}

func (d *daoImpl) DB() *gorm.DB {
	return d.db
}

package util

// MonthFormat 仪表盘日历的月份参数
const MonthFormat = "2006-01"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

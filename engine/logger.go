package engine

import "github.com/sirupsen/logrus"

// log 信控引擎模块的日志记录器
var log = logrus.WithField("module", "engine")

package sim

import "github.com/sirupsen/logrus"

// log 内置路口模拟器模块的日志记录器
var log = logrus.WithField("module", "sim")

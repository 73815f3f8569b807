package main

import (
	"encoding/base64"
	"errors"
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/clock"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/engine"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/sim"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/config"
	"gopkg.in/yaml.v2"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	// 获取配置
	var c config.Config
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", c)

	rc := config.NewRuntimeConfig(c)
	clk := clock.New(rc.C.Step)
	source := sim.New(rc.All.Sim, rc.C.SignalID, rc.E.BaseDuration)
	e := engine.New(rc.E, source, source, rc.C.SignalID)

	nextReport := clk.T
	for !clk.Done() {
		source.Prepare()
		if _, err := e.Step(); err != nil {
			if errors.Is(err, engine.ErrTickSkipped) {
				log.Debugf("tick %d skipped: %v", clk.InternalStep, err)
			} else {
				log.Errorf("tick %d failed: %v", clk.InternalStep, err)
			}
		}
		source.Update(clk.DT)
		clk.Tick()

		if rc.C.ReportInterval > 0 && clk.T >= nextReport {
			w := e.Weights()
			log.Infof("%v | NS %.2f | EW %.2f | vehicles %d | tracked %d",
				clk, w[engine.DirectionNS], w[engine.DirectionEW],
				source.VehicleCount(), e.HistorySize())
			nextReport += rc.C.ReportInterval
		}
	}

	log.Infof("simulation finished at %v, %d emergency preemptions", clk, len(e.EmergencyLog()))
}

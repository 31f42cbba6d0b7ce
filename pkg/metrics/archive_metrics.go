// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	archiveMetricSubsystem = "archive"
	framerMetricSubsystem  = "framer"
)

var (
	ArchiveMetricsRegisterOnce sync.Once

	ArchiveEncodedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: archiverNamespace,
		Subsystem: archiveMetricSubsystem,
		Name:      "encoded_records_total",
		Help:      "按顶层标识统计的编码记录数",
	}, []string{identifierLabelName})

	ArchiveDecodedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: archiverNamespace,
		Subsystem: archiveMetricSubsystem,
		Name:      "decoded_records_total",
		Help:      "按顶层标识统计的解码记录数",
	}, []string{identifierLabelName})

	ArchiveDecodeFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: archiverNamespace,
		Subsystem: archiveMetricSubsystem,
		Name:      "decode_failures_total",
		Help:      "按错误码统计的解码失败次数",
	}, []string{codeLabelName})

	ArchiveRecordBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: archiverNamespace,
		Subsystem: archiveMetricSubsystem,
		Name:      "record_bytes",
		Help:      "编码或解码的归档记录字节数",
		Buckets:   sizeBuckets,
	}, []string{opLabelName})

	ArchiveLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: archiverNamespace,
		Subsystem: archiveMetricSubsystem,
		Name:      "latency_us",
		Help:      "编码或解码单条记录的耗时，单位微秒",
		Buckets:   buckets,
	}, []string{opLabelName})

	ArchiveDroppedElements = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: archiverNamespace,
		Subsystem: archiveMetricSubsystem,
		Name:      "dropped_elements_total",
		Help:      "编码时按 drop 策略丢弃的不合规元素数",
	})

	FramerFrames = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: archiverNamespace,
		Subsystem: framerMetricSubsystem,
		Name:      "frames_total",
		Help:      "读写的记录帧数",
	}, []string{opLabelName})
)

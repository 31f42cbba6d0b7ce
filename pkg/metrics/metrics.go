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
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// archiverNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	archiverNamespace = "archiver"

	identifierLabelName = "identifier"
	codeLabelName       = "code"
	opLabelName         = "op"

	EncodeLabel = "encode"
	DecodeLabel = "decode"
)

var (
	// buckets 为耗时直方图的桶划分，单位为微秒。
	// [1 2 4 8 ... 65536 131072]
	buckets = prometheus.ExponentialBuckets(1, 2, 18)

	// sizeBuckets 为归档记录大小的桶划分，单位为字节。
	// [16 64 256 1024 ... 16777216 67108864]
	sizeBuckets = prometheus.ExponentialBuckets(16, 4, 12)

	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回指标注册到的 Registerer，未调用 Register 时为 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册全部归档指标，重复调用只生效一次。
func Register(r prometheus.Registerer) {
	ArchiveMetricsRegisterOnce.Do(func() {
		r.MustRegister(ArchiveEncodedRecords)
		r.MustRegister(ArchiveDecodedRecords)
		r.MustRegister(ArchiveDecodeFailures)
		r.MustRegister(ArchiveRecordBytes)
		r.MustRegister(ArchiveLatency)
		r.MustRegister(ArchiveDroppedElements)
		r.MustRegister(FramerFrames)
		metricRegisterer = r
	})
}

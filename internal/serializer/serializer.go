package serializer

// Serializer 抽象了“对象 <-> 字节”的序列化能力。
//
// 归档格式、JSON、Protobuf 共用这一接口，codec 通过注入不同实现切换负载格式。
type Serializer interface {
	// Marshal 将对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象，v 通常为指针。
	Unmarshal(data []byte, v any) error
}

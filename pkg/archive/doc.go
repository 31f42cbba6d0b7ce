// Package archive 实现一种自描述的二进制归档格式。
//
// 每个值在归档后都携带自己的类型标识（identifier），解码时无需外部 schema：
//
//	record        := idLen(1 byte) id(idLen bytes) header body
//	intField      := 标识为 "int" 的完整 record（IntFieldWidth 字节）
//	list.header   := count(intField) length_1..n(intField)
//	list.body     := record_1 ... record_n
//	map.header    := count(intField) keyLen_1..n(intField) valLen_1..n(intField)
//	map.body      := keyRecord_1..n valRecord_1..n
//	string.header := utf8ByteLength(intField)
//	string.body   := utf8 bytes
//
// 整数使用平台字长（strconv.IntSize），字节序为本机字节序（binary.NativeEndian），
// 因此归档结果不保证跨平台可移植。
//
// 解码通过 Registry 分派：标识 -> DecodeFunc，另可为复合记录注册 RestoreFunc，
// 在解码得到字段 Map 之后把它还原为更丰富的业务类型。Registry 是显式对象，
// 由 Archiver 持有并通过 Decoder 传递给每一个解码过程。
//
// 基本用法：
//
//	registry, _ := archive.NewStandardRegistry()
//	a, _ := archive.New(archive.Options{Registry: registry})
//	defer a.Close()
//
//	data, _ := a.Encode(archive.NewList(archive.String("a"), archive.String("bb")))
//	v, _ := a.Decode(data)
package archive

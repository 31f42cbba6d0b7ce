package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/struct-archiver-go/application"
	"github.com/lk2023060901/struct-archiver-go/internal/json"
	"github.com/lk2023060901/struct-archiver-go/pkg/archive"
	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

type command func(app *application.Application, r io.Reader, w io.Writer, raw bool) error

var commands = map[string]command{
	"encode":  encode,
	"decode":  decode,
	"inspect": inspect,
}

// encode 逐个读取 JSON 值，转换为 Value 后写出。
func encode(app *application.Application, r io.Reader, w io.Writer, raw bool) error {
	c, err := app.Codec(nil)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(r)
	policy := app.Archiver().Options().ElementPolicy
	for i := 0; ; i++ {
		var x any
		if err := dec.Decode(&x); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrapf(merr.WrapErrAsInputError(merr.ErrParameterInvalid), "read json value %d: %v", i, err)
		}
		v, err := archive.ValueOf(x, policy)
		if err != nil {
			return errors.Wrapf(err, "value %d", i)
		}
		if raw {
			data, err := app.Archiver().Encode(v)
			if err != nil {
				return errors.Wrapf(err, "value %d", i)
			}
			_, err = w.Write(data)
			return err
		}
		if err := c.Encode(w, v); err != nil {
			return errors.Wrapf(err, "value %d", i)
		}
	}
}

// decode 把每条记录还原为 JSON，一行一个。
func decode(app *application.Application, r io.Reader, w io.Writer, raw bool) error {
	bw := bufio.NewWriter(w)
	err := eachRecord(app, r, raw, func(i int, v archive.Value) error {
		data, err := json.Marshal(archive.ToNative(v))
		if err != nil {
			return errors.Wrapf(err, "marshal record %d", i)
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// inspect 打印每条记录的结构树。
func inspect(app *application.Application, r io.Reader, w io.Writer, raw bool) error {
	bw := bufio.NewWriter(w)
	err := eachRecord(app, r, raw, func(i int, v archive.Value) error {
		_, err := fmt.Fprintf(bw, "#%d %s", i, archive.Describe(v))
		return err
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

func eachRecord(app *application.Application, r io.Reader, raw bool, fn func(i int, v archive.Value) error) error {
	if raw {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		v, err := app.Archiver().Decode(data)
		if err != nil {
			return err
		}
		return fn(0, v)
	}

	c, err := app.Codec(nil)
	if err != nil {
		return err
	}
	for i := 0; ; i++ {
		var v archive.Value
		if err := c.Decode(r, &v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrapf(err, "record %d", i)
		}
		if err := fn(i, v); err != nil {
			return err
		}
	}
}

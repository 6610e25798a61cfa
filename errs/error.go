package errs

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// CodeError 带数字错误码的错误, errors.Is 按错误码比较.
// 可以附带出错的定时器id和owner, 输出在描述后面
type CodeError interface {
	error
	Code() int32
	Print(extras ...string) CodeError
	Printf(format string, args ...any) CodeError
	WithTimer(id int64) CodeError
	WithOwner(owner any) CodeError
	Is(error) bool
}

func CreateCodeError(code int32, desc string) CodeError {
	return &codeError{
		Errno: code,
		Desc:  desc,
	}
}

// WrapError 非CodeError统一包装为Unknown
func WrapError(err error) CodeError {
	if err == nil {
		return nil
	}
	var ce CodeError
	if errors.As(err, &ce) {
		return ce
	}
	return CreateCodeError(ErrCode_Unknown, err.Error())
}

// TimerOf 取出错误附带的定时器id
func TimerOf(err error) (int64, bool) {
	var ce *codeError
	if errors.As(err, &ce) && ce.hasTimer {
		return ce.TimerId, true
	}
	return 0, false
}

// OwnerOf 取出错误附带的owner描述
func OwnerOf(err error) (string, bool) {
	var ce *codeError
	if errors.As(err, &ce) && ce.Owner != "" {
		return ce.Owner, true
	}
	return "", false
}

type codeError struct {
	Errno    int32
	Desc     string
	TimerId  int64
	Owner    string
	hasTimer bool
}

func (e *codeError) Code() int32 {
	return e.Errno
}

func (e *codeError) Error() string {
	if !e.hasTimer && e.Owner == "" {
		return e.Desc
	}
	var b strings.Builder
	b.WriteString(e.Desc)
	if e.hasTimer {
		b.WriteString(",timer=")
		b.WriteString(strconv.FormatInt(e.TimerId, 10))
	}
	if e.Owner != "" {
		b.WriteString(",owner=")
		b.WriteString(e.Owner)
	}
	return b.String()
}

func (e *codeError) String() string {
	return fmt.Sprintf("errno: %d, desc: %s", e.Errno, e.Error())
}

func (e *codeError) clone() *codeError {
	x := *e
	return &x
}

func (e *codeError) Print(extras ...string) CodeError {
	if len(extras) == 0 {
		return e
	}
	x := e.clone()
	x.Desc = e.Desc + "," + strings.Join(extras, ",")
	return x
}

func (e *codeError) Printf(format string, args ...any) CodeError {
	if len(format) == 0 {
		return e
	}
	x := e.clone()
	x.Desc = e.Desc + "," + fmt.Sprintf(format, args...)
	return x
}

func (e *codeError) WithTimer(id int64) CodeError {
	x := e.clone()
	x.TimerId = id
	x.hasTimer = true
	return x
}

// WithOwner fmt.Stringer 用 String(), 其他用类型名
func (e *codeError) WithOwner(owner any) CodeError {
	x := e.clone()
	if s, ok := owner.(fmt.Stringer); ok && !isNilPointer(owner) {
		x.Owner = s.String()
	} else {
		x.Owner = fmt.Sprintf("%T", owner)
	}
	return x
}

func (e *codeError) Is(target error) bool {
	if x, ok := target.(*codeError); ok {
		return x.Errno == e.Errno
	}
	return false
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

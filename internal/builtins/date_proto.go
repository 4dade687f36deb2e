package builtins

import (
	"math"
	"time"

	"github.com/jeremypatrickdahan/smallOnlineCompiler/internal/object"
)

// dateMillis extracts the millisecond-since-epoch backing value a Date
// object stores in Data, per ES5 15.9.1's internal [[PrimitiveValue]].
func dateMillis(o *object.Object) float64 {
	if f, ok := o.Data.(float64); ok {
		return f
	}
	return math.NaN()
}

func timeFromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}

func installDate(funcProto, objectProto *object.Object) *object.Object {
	dateProto := object.NewWithClass(objectProto, "Date")
	dateProto.Data = math.NaN()

	thisDate := func(host object.Host, this object.Value) (*object.Object, error) {
		if !this.IsObject() || this.Object().Class != "Date" {
			return nil, newTypeError(host, "not a Date")
		}
		return this.Object(), nil
	}

	method(funcProto, dateProto, "getTime", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := thisDate(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return object.Number(dateMillis(o)), nil
	})
	method(funcProto, dateProto, "valueOf", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := thisDate(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		return object.Number(dateMillis(o)), nil
	})
	method(funcProto, dateProto, "setTime", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := thisDate(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		n, err := hostIP(host).ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		o.Data = n
		return object.Number(n), nil
	})

	dateGetter := func(name string, extract func(time.Time) int) {
		method(funcProto, dateProto, name, 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
			o, err := thisDate(host, this)
			if err != nil {
				return object.Undefined(), err
			}
			ms := dateMillis(o)
			if math.IsNaN(ms) {
				return object.Number(math.NaN()), nil
			}
			return object.Number(float64(extract(timeFromMillis(ms)))), nil
		})
	}
	dateGetter("getFullYear", func(t time.Time) int { return t.Year() })
	dateGetter("getMonth", func(t time.Time) int { return int(t.Month()) - 1 })
	dateGetter("getDate", func(t time.Time) int { return t.Day() })
	dateGetter("getDay", func(t time.Time) int { return int(t.Weekday()) })
	dateGetter("getHours", func(t time.Time) int { return t.Hour() })
	dateGetter("getMinutes", func(t time.Time) int { return t.Minute() })
	dateGetter("getSeconds", func(t time.Time) int { return t.Second() })
	dateGetter("getMilliseconds", func(t time.Time) int { return t.Nanosecond() / 1e6 })
	dateGetter("getUTCFullYear", func(t time.Time) int { return t.Year() })
	dateGetter("getUTCMonth", func(t time.Time) int { return int(t.Month()) - 1 })
	dateGetter("getUTCDate", func(t time.Time) int { return t.Day() })
	dateGetter("getUTCHours", func(t time.Time) int { return t.Hour() })
	dateGetter("getUTCMinutes", func(t time.Time) int { return t.Minute() })
	dateGetter("getUTCSeconds", func(t time.Time) int { return t.Second() })
	method(funcProto, dateProto, "getTimezoneOffset", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(0), nil
	})

	method(funcProto, dateProto, "toISOString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := thisDate(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		ms := dateMillis(o)
		if math.IsNaN(ms) {
			return object.Undefined(), newRangeError(host, "Invalid Date")
		}
		return object.String(timeFromMillis(ms).Format("2006-01-02T15:04:05.000Z")), nil
	})
	method(funcProto, dateProto, "toString", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		o, err := thisDate(host, this)
		if err != nil {
			return object.Undefined(), err
		}
		ms := dateMillis(o)
		if math.IsNaN(ms) {
			return object.String("Invalid Date"), nil
		}
		return object.String(timeFromMillis(ms).Format("Mon Jan 02 2006 15:04:05 GMT+0000")), nil
	})
	method(funcProto, dateProto, "toJSON", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		fn, _ := hostIP(host).GetProperty(this.Object(), "toISOString")
		return hostIP(host).Call(fn.Object(), this, nil)
	})

	ctor := ctorFunc(funcProto, dateProto, "Date", 7, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		if this.IsUndefined() {
			return object.String(time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000")), nil
		}
		o := this.Object()
		switch len(args) {
		case 0:
			o.Data = float64(time.Now().UnixMilli())
		case 1:
			if args[0].IsString() {
				t, perr := parseDateString(args[0].String())
				if perr != nil {
					o.Data = math.NaN()
				} else {
					o.Data = float64(t.UnixMilli())
				}
			} else {
				n, err := hostIP(host).ToNumber(args[0])
				if err != nil {
					return object.Undefined(), err
				}
				o.Data = n
			}
		default:
			get := func(i int, deflt float64) (float64, error) {
				if i >= len(args) {
					return deflt, nil
				}
				return hostIP(host).ToNumber(args[i])
			}
			year, err := get(0, 1970)
			if err != nil {
				return object.Undefined(), err
			}
			month, _ := get(1, 0)
			day, _ := get(2, 1)
			hour, _ := get(3, 0)
			minute, _ := get(4, 0)
			sec, _ := get(5, 0)
			msec, _ := get(6, 0)
			t := time.Date(int(year), time.Month(int(month)+1), int(day), int(hour), int(minute), int(sec), int(msec)*1e6, time.UTC)
			o.Data = float64(t.UnixMilli())
		}
		return object.FromObject(o), nil
	})
	method(funcProto, ctor, "now", 0, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(time.Now().UnixMilli())), nil
	})
	method(funcProto, ctor, "parse", 1, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		s, err := hostIP(host).ToStringValue(arg(args, 0))
		if err != nil {
			return object.Undefined(), err
		}
		t, perr := parseDateString(s)
		if perr != nil {
			return object.Number(math.NaN()), nil
		}
		return object.Number(float64(t.UnixMilli())), nil
	})
	method(funcProto, ctor, "UTC", 7, func(host object.Host, this object.Value, args []object.Value) (object.Value, error) {
		get := func(i int, deflt float64) (float64, error) {
			if i >= len(args) {
				return deflt, nil
			}
			return hostIP(host).ToNumber(args[i])
		}
		year, err := get(0, 1970)
		if err != nil {
			return object.Undefined(), err
		}
		month, _ := get(1, 0)
		day, _ := get(2, 1)
		hour, _ := get(3, 0)
		minute, _ := get(4, 0)
		sec, _ := get(5, 0)
		msec, _ := get(6, 0)
		t := time.Date(int(year), time.Month(int(month)+1), int(day), int(hour), int(minute), int(sec), int(msec)*1e6, time.UTC)
		return object.Number(float64(t.UnixMilli())), nil
	})
	return ctor
}

func parseDateString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02", time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &time.ParseError{Value: s}
}

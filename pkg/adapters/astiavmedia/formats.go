package astiavmedia

import (
	"github.com/asticode/go-astiav"
	"github.com/user/framepeek/pkg/ports"
)

var pixelFormats = map[astiav.PixelFormat]ports.PixelFormat{
	astiav.PixelFormatRgb8:     ports.PixelFormatRGB8,
	astiav.PixelFormatRgb444Le: ports.PixelFormatRGB444LE,
	astiav.PixelFormatRgb444Be: ports.PixelFormatRGB444BE,
	astiav.PixelFormatRgb555Le: ports.PixelFormatRGB555LE,
	astiav.PixelFormatRgb555Be: ports.PixelFormatRGB555BE,
	astiav.PixelFormatBgr555Le: ports.PixelFormatBGR555LE,
	astiav.PixelFormatBgr555Be: ports.PixelFormatBGR555BE,
	astiav.PixelFormatRgb565Le: ports.PixelFormatRGB565LE,
	astiav.PixelFormatRgb565Be: ports.PixelFormatRGB565BE,
	astiav.PixelFormatBgr565Le: ports.PixelFormatBGR565LE,
	astiav.PixelFormatBgr565Be: ports.PixelFormatBGR565BE,
	astiav.PixelFormatRgb24:    ports.PixelFormatRGB24,
	astiav.PixelFormatBgr24:    ports.PixelFormatBGR24,
	astiav.PixelFormatArgb:     ports.PixelFormatARGB,
	astiav.PixelFormatRgba:     ports.PixelFormatRGBA,
	astiav.PixelFormatAbgr:     ports.PixelFormatABGR,
	astiav.PixelFormatBgra:     ports.PixelFormatBGRA,
	astiav.PixelFormat0Rgb:     ports.PixelFormat0RGB,
	astiav.PixelFormatRgb0:     ports.PixelFormatRGB0,
	astiav.PixelFormat0Bgr:     ports.PixelFormat0BGR,
	astiav.PixelFormatBgr0:     ports.PixelFormatBGR0,
	astiav.PixelFormatYuv420P:  ports.PixelFormatYUV420P,
	astiav.PixelFormatYuyv422:  ports.PixelFormatYUYV422,
	astiav.PixelFormatUyvy422:  ports.PixelFormatUYVY422,
	astiav.PixelFormatNv12:     ports.PixelFormatNV12,
	astiav.PixelFormatYuv422P:  ports.PixelFormatYUV422P,
	astiav.PixelFormatYuv444P:  ports.PixelFormatYUV444P,
}

func pixelFormat(f astiav.PixelFormat) ports.PixelFormat {
	if pf, ok := pixelFormats[f]; ok {
		return pf
	}
	return ports.PixelFormatNone
}

func mediaType(t astiav.MediaType) ports.MediaType {
	switch t {
	case astiav.MediaTypeVideo:
		return ports.MediaTypeVideo
	case astiav.MediaTypeAudio:
		return ports.MediaTypeAudio
	case astiav.MediaTypeSubtitle:
		return ports.MediaTypeSubtitle
	case astiav.MediaTypeData:
		return ports.MediaTypeData
	}
	return ports.MediaTypeUnknown
}

func rational(r astiav.Rational) ports.Rational {
	return ports.Rational{Num: r.Num(), Den: r.Den()}
}

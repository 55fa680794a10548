package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
)

// trans 全局翻译器
var trans ut.Translator

// InitTrans 初始化 validator 错误消息翻译器
// locale 支持 zh / en，默认 en
func InitTrans(locale string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("获取 validator 引擎失败")
	}

	// 校验错误里用 json 标签名代替结构体字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	zhT := zh.New()
	enT := en.New()
	uni := ut.New(enT, zhT, enT)

	var found bool
	trans, found = uni.GetTranslator(locale)
	if !found {
		return fmt.Errorf("获取 %s 翻译器失败", locale)
	}

	switch locale {
	case "zh":
		return zhTranslations.RegisterDefaultTranslations(v, trans)
	default:
		return enTranslations.RegisterDefaultTranslations(v, trans)
	}
}

// TranslateError 把 binding 校验错误翻译成可读消息
func TranslateError(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || trans == nil {
		return err.Error()
	}
	var msgs []string
	for _, fe := range errs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}

package config

const (
	defaultLogDir             = "~/.local/share/reclaim/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultDecoderTimeout     = 300
	defaultContainerExtension = ".nqf"
	defaultOutputSuffix       = "_ESET.out"
	defaultOCRBinary          = "tesseract"
	defaultOCRLanguage        = "eng"
	defaultOCRTimeout         = 120
	defaultMatchTolerance     = 0.12
	defaultLookaheadLines     = 2
	defaultExcludePattern     = `(?i)^cache`
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Decoder: Decoder{
			TimeoutSeconds:     defaultDecoderTimeout,
			ContainerExtension: defaultContainerExtension,
			OutputSuffix:       defaultOutputSuffix,
		},
		OCR: OCR{
			Binary:         defaultOCRBinary,
			Language:       defaultOCRLanguage,
			TimeoutSeconds: defaultOCRTimeout,
		},
		Matcher: Matcher{
			Tolerance:      defaultMatchTolerance,
			LookaheadLines: defaultLookaheadLines,
			ExcludePattern: defaultExcludePattern,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

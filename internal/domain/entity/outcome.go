package entity

// OutcomeKind классифицирует результат одной попытки загрузки.
type OutcomeKind string

const (
	OutcomeSuccess          OutcomeKind = "success"           // найден хотя бы один предмет
	OutcomeEmptyDetection   OutcomeKind = "empty_detection"   // сервис ответил, но предметов нет
	OutcomeTransportFailure OutcomeKind = "transport_failure" // сеть, не-2xx или битый ответ
)

// Image: загруженный пользователем файл.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadOutcome: итог загрузки. Заполнены только поля, относящиеся к Kind.
type UploadOutcome struct {
	Kind   OutcomeKind
	Image  Image
	Result DetectionResult
	Cause  error
}

func Success(image Image, result DetectionResult) UploadOutcome {
	return UploadOutcome{Kind: OutcomeSuccess, Image: image, Result: result}
}

func EmptyDetection(image Image) UploadOutcome {
	return UploadOutcome{Kind: OutcomeEmptyDetection, Image: image}
}

func TransportFailure(cause error) UploadOutcome {
	return UploadOutcome{Kind: OutcomeTransportFailure, Cause: cause}
}

// IsSuccess сообщает, что загрузка дала предметы для показа.
func (o UploadOutcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// ImageView: то, что видит слой отображения: ссылка на картинку и рамки.
type ImageView struct {
	DisplayRef string       `json:"displayRef"`
	Boxes      []OverlayBox `json:"boxes"`
}

// ProjectView строит представление для успешного итога. Для остальных
// итогов ok == false, и представление не меняется.
func ProjectView(o UploadOutcome, displayRef string) (view ImageView, ok bool) {
	if !o.IsSuccess() {
		return ImageView{}, false
	}
	return ImageView{
		DisplayRef: displayRef,
		Boxes:      OverlayBoxes(o.Result.Items),
	}, true
}

package ingest

// PromptTemplate asks an assistant to rewrite a free-form timetable into the
// list layout this package reads.
const PromptTemplate = `Convierte el horario que te paso en JSON y responde SOLO con el JSON, sin texto adicional. Omite cualquier curso o actividad sin días u horas definidos.

[
  {
    "title": "Nombre de la actividad",
    "description": "Detalles (opcional)",
    "startTime": "08:00",
    "endTime": "10:00",
    "days": [1, 3],
    "color": "blue"
  }
]

"days" usa 0=Domingo, 1=Lunes, 2=Martes, 3=Miércoles, 4=Jueves, 5=Viernes, 6=Sábado.
"color" es uno de: blue, green, purple, red, yellow.`
